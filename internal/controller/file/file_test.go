package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"DocVault-backend/internal/database"
	"DocVault-backend/internal/model"
	"DocVault-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

// injectUser stands in for RequireAuth so handler tests can pick the caller.
func injectUser(user model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}
}

type fixture struct {
	engine  *gin.Engine
	backend *storage.LocalBackend
}

func newFixture(t *testing.T, user model.User) *fixture {
	t.Helper()

	backend, err := storage.NewLocalBackend(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	fc := NewFileController(testDB, backend, []string{"pdf"})

	r := gin.New()
	r.POST("/upload", injectUser(user), fc.Upload)
	r.GET("/dashboard", injectUser(user), fc.Dashboard)
	r.GET("/uploads/:filename", injectUser(user), fc.Download)
	r.DELETE("/uploads/:filename", injectUser(user), fc.Delete)

	t.Cleanup(func() {
		testDB.Where("user_id = ?", user.ID).Delete(&model.FileRecord{})
	})

	return &fixture{engine: r, backend: backend}
}

func (f *fixture) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, _ := http.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) dashboardFiles(t *testing.T) []map[string]interface{} {
	t.Helper()

	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Files []map[string]interface{} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Files
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	f := newFixture(t, database.TestUserAlice)
	content := []byte("ten bytes!")

	rec := f.upload(t, "report.pdf", content)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	files := f.dashboardFiles(t)
	require.Len(t, files, 1)
	assert.Equal(t, "report.pdf", files[0]["filename"])
	assert.EqualValues(t, len(content), files[0]["size"])

	req, _ := http.NewRequest(http.MethodGet, "/uploads/report.pdf", nil)
	dl := httptest.NewRecorder()
	f.engine.ServeHTTP(dl, req)

	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, content, dl.Body.Bytes())
	assert.Contains(t, dl.Header().Get("Content-Disposition"), "report.pdf")
}

func TestUploadDisallowedExtension(t *testing.T) {
	f := newFixture(t, database.TestUserAlice)

	rec := f.upload(t, "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code, rec.Body.String())

	// No bytes written, no record created
	names, err := f.backend.List()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, f.dashboardFiles(t))
}

func TestUploadNoFileField(t *testing.T) {
	f := newFixture(t, database.TestUserAlice)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.Close())

	req, _ := http.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadSanitizesTraversalNames(t *testing.T) {
	f := newFixture(t, database.TestUserAlice)

	rec := f.upload(t, "../../etc/passwd.pdf", []byte("not a real passwd"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Stored flat under the sanitized name, nothing outside the directory
	names, err := f.backend.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"etc_passwd.pdf"}, names)
	_, err = os.Stat(filepath.Join(f.backend.Dir(), "etc_passwd.pdf"))
	assert.NoError(t, err)

	files := f.dashboardFiles(t)
	require.Len(t, files, 1)
	assert.Equal(t, "etc_passwd.pdf", files[0]["filename"])
}

func TestReuploadOverwrites(t *testing.T) {
	f := newFixture(t, database.TestUserAlice)

	first := f.upload(t, "x.pdf", []byte("first content"))
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := f.upload(t, "x.pdf", []byte("second"))
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	// Still exactly one entry, holding the second content
	files := f.dashboardFiles(t)
	require.Len(t, files, 1)
	assert.Equal(t, "x.pdf", files[0]["filename"])
	assert.EqualValues(t, len("second"), files[0]["size"])

	req, _ := http.NewRequest(http.MethodGet, "/uploads/x.pdf", nil)
	dl := httptest.NewRecorder()
	f.engine.ServeHTTP(dl, req)
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, "second", dl.Body.String())
}

func TestDownloadUnknownFile(t *testing.T) {
	f := newFixture(t, database.TestUserAlice)

	req, _ := http.NewRequest(http.MethodGet, "/uploads/missing.pdf", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadOtherUsersFile(t *testing.T) {
	alice := newFixture(t, database.TestUserAlice)
	rec := alice.upload(t, "private.pdf", []byte("alice only"))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Bob shares the backend but not the record
	fc := NewFileController(testDB, alice.backend, []string{"pdf"})
	r := gin.New()
	r.GET("/uploads/:filename", injectUser(database.TestUserBob), fc.Download)

	req, _ := http.NewRequest(http.MethodGet, "/uploads/private.pdf", nil)
	dl := httptest.NewRecorder()
	r.ServeHTTP(dl, req)

	assert.Equal(t, http.StatusNotFound, dl.Code, "files of other users look like they do not exist")
}

func TestDeleteRemovesRecordAndBytes(t *testing.T) {
	f := newFixture(t, database.TestUserAlice)

	rec := f.upload(t, "gone.pdf", []byte("bye"))
	require.Equal(t, http.StatusCreated, rec.Code)

	req, _ := http.NewRequest(http.MethodDelete, "/uploads/gone.pdf", nil)
	del := httptest.NewRecorder()
	f.engine.ServeHTTP(del, req)
	require.Equal(t, http.StatusOK, del.Code, del.Body.String())

	assert.Empty(t, f.dashboardFiles(t))
	names, err := f.backend.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDeleteUnknownFile(t *testing.T) {
	f := newFixture(t, database.TestUserAlice)

	rec := f.upload(t, "keep.pdf", []byte("keep"))
	require.Equal(t, http.StatusCreated, rec.Code)

	req, _ := http.NewRequest(http.MethodDelete, "/uploads/absent.pdf", nil)
	del := httptest.NewRecorder()
	f.engine.ServeHTTP(del, req)
	assert.Equal(t, http.StatusNotFound, del.Code)

	// Storage unchanged
	names, err := f.backend.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.pdf"}, names)
}
