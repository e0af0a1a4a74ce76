package loader

import (
	"path/filepath"
	"strings"
)

// ContentKind classifies an uploaded case file by the way its content is
// turned into model input.
type ContentKind string

const (
	ContentKindText        ContentKind = "text"
	ContentKindPDF         ContentKind = "pdf"
	ContentKindImage       ContentKind = "image"
	ContentKindUnsupported ContentKind = "unsupported"
)

// CaseContent is the decoded content of a case file, ready for extraction.
// Text holds flattened plain text for text and PDF files; Image holds the
// encoded image for image files.
type CaseContent struct {
	Kind  ContentKind
	Text  string
	Image ImageContent
}

// ImageContent is a base64-encoded image with its data-URI prefix, the shape
// vision model APIs accept.
type ImageContent struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mime_type"`
}

// DataURI returns the image as a data URI.
func (i ImageContent) DataURI() string {
	return "data:" + i.MimeType + ";base64," + i.Base64
}

// DetectKind classifies a filename by extension.
func DetectKind(filename string) ContentKind {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case "txt", "md":
		return ContentKindText
	case "pdf":
		return ContentKindPDF
	case "jpg", "jpeg", "png", "gif", "bmp", "webp":
		return ContentKindImage
	default:
		return ContentKindUnsupported
	}
}

// Decode turns raw file bytes into CaseContent for the given kind.
func Decode(data []byte, filename string, kind ContentKind) (CaseContent, error) {
	switch kind {
	case ContentKindText:
		return CaseContent{Kind: kind, Text: string(data)}, nil
	case ContentKindPDF:
		text, err := FlattenPDF(data)
		if err != nil {
			return CaseContent{}, err
		}
		return CaseContent{Kind: kind, Text: text}, nil
	case ContentKindImage:
		return CaseContent{Kind: kind, Image: EncodeImage(data, filename)}, nil
	default:
		return CaseContent{}, ErrUnsupportedContent
	}
}
