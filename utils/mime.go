package utils

import (
	"path/filepath"
	"strings"
)

// imageMIMETypes maps lowercased image file extensions to their MIME types.
// Matches the set of formats accepted by the photo upload form.
var imageMIMETypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
}

// ImageMIMEType resolves the MIME type for a filename by its extension.
// Unknown extensions return ok=false so callers can reject the file
// instead of uploading it with an undefined content type.
func ImageMIMEType(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	mime, ok := imageMIMETypes[ext]
	return mime, ok
}
