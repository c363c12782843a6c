package storage

import (
	"mime"
	"path/filepath"
	"strings"
)

// contentType determines the content type of a file based on its extension
func contentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if detected := mime.TypeByExtension(ext); detected != "" {
		return detected
	}
	return "application/octet-stream"
}
