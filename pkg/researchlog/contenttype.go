package researchlog

import (
	"path/filepath"
	"strings"
)

// DefaultContentType is served for any extension missing from the table.
const DefaultContentType = "image/jpeg"

var contentTypes = map[string]string{
	".png": "image/png",
	".gif": "image/gif",
	".svg": "image/svg+xml",
	".mp4": "video/mp4",
}

// ContentTypeFor maps a filename's extension, case-insensitively, to the
// MIME type it is served with. Unknown extensions fall back to image/jpeg.
func ContentTypeFor(fileName string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return ct
	}
	return DefaultContentType
}
