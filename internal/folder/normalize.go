package folder

import (
	"path"
	"strings"
)

// Key is the canonical identity of a folder path. Entries, usage history and
// annotations are all joined on it. Keys are for identity only and are never
// handed back to the operating system; the native path string is kept
// alongside wherever a folder has to be opened or listed.
type Key string

// Normalize canonicalizes a raw path into its Key. Separator and case
// differences collapse so that the same filesystem folder always maps to the
// same key: backslashes fold to forward slashes, the result is cleaned, and
// the whole string is lowercased. Pure function; invalid input yields a
// best-effort canonical form rather than an error, since the enumeration
// collaborator already filters to existing directories.
func Normalize(raw string) Key {
	if raw == "" {
		return ""
	}

	p := strings.ReplaceAll(raw, `\`, "/")
	p = path.Clean(p)

	return Key(strings.ToLower(p))
}
