package utils

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/unidecode"
)

// SafeFilename folds name to ASCII and keeps only characters that are safe in
// object keys and URLs. Empty results become "upload".
func SafeFilename(name string) string {
	ascii := unidecode.Unidecode(strings.TrimSpace(name))
	ext := strings.ToLower(filepath.Ext(ascii))
	base := strings.TrimSuffix(ascii, filepath.Ext(ascii))

	clean := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				b.WriteRune(r)
			case r == ' ' || r == '.':
				b.WriteRune('-')
			}
		}
		return strings.Trim(b.String(), "-_")
	}

	base = clean(base)
	if base == "" {
		base = "upload"
	}
	ext = clean(ext)
	if ext == "" {
		return base
	}
	return base + "." + ext
}
