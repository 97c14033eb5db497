package utilities

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithAuthHeader(value string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		c.Request.Header.Set("Authorization", value)
	}
	return c
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken(contextWithAuthHeader("Bearer abc.def.ghi"))
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestExtractBearerTokenRejectsMalformedHeaders(t *testing.T) {
	for _, header := range []string{
		"",
		"Basic dXNlcjpwYXNzd29yZA==",
		"bearer abc.def.ghi",
		"Bearer ",
		"abc.def.ghi",
	} {
		_, err := ExtractBearerToken(contextWithAuthHeader(header))
		assert.Error(t, err, "header %q", header)
	}
}
