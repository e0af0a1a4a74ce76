package loader

import (
	"encoding/base64"
	"mime"
	"path/filepath"
	"strings"
)

// EncodeImage packages raw image bytes as base64 with the MIME type derived
// from the filename extension.
func EncodeImage(data []byte, filename string) ImageContent {
	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/png"
	}
	return ImageContent{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}
