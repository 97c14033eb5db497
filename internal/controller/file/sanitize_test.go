package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My Résumé 2024.pdf", "My_Rsum_2024.pdf"},
		{"../../etc/passwd", "etc_passwd"},
		{`..\..\windows\system32`, "windows_system32"},
		{"/absolute/path/file.pdf", "absolute_path_file.pdf"},
		{"with spaces.pdf", "with_spaces.pdf"},
		{"dots...everywhere...pdf", "dots...everywhere...pdf"},
		{".hidden", "hidden"},
		{"trailing.", "trailing"},
		{"UPPER-case_ok.PDF", "UPPER-case_ok.PDF"},
		{"", ""},
		{"...", ""},
		{"///", ""},
		{"__", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestSanitizeFilenameIsIdempotent(t *testing.T) {
	for _, in := range []string{"report.pdf", "../../etc/passwd", "a b c.pdf"} {
		once := SanitizeFilename(in)
		assert.Equal(t, once, SanitizeFilename(once), "input %q", in)
	}
}
