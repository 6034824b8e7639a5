package constants

import "strings"

// Document formats understood by the reader.
const (
	PDF = "PDF"
	TXT = "TXT"
)

// AllowedExtensions holds the extensions picked up by the reader and the inbox watcher.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns PDF or TXT for a supported extension and "" otherwise.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TXT
	default:
		return ""
	}
}

// IsAllowedExt reports whether the extension (with or without dot) is supported.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
