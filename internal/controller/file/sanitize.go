package file

import "strings"

// SanitizeFilename reduces an untrusted upload filename to a single safe
// path component. Path separators become word boundaries, anything outside
// [A-Za-z0-9._-] is dropped, and leading/trailing dots and underscores are
// trimmed. "../../etc/passwd" comes out as "etc_passwd". An empty result
// means the name is unusable.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", " ")
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "._")
}
