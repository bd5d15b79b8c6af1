package gateway

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"github.com/flashdeck/flashdeck-go/internal/client/models"
)

// Field is one string part of a multipart form. Repeated names are allowed
// (the backend reads repeated "tags[]" parts as a list).
type Field struct {
	Name  string
	Value string
}

// EncodeMultipart builds a multipart/form-data body from the given fields and,
// when asset is non-nil, an "image" file part. It returns the encoded body and
// the content type carrying the part boundary.
func EncodeMultipart(fields []Field, asset *models.Asset) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("writing field %q: %w", f.Name, err)
		}
	}
	if asset != nil {
		part, err := w.CreateFormFile("image", asset.Name)
		if err != nil {
			return nil, "", fmt.Errorf("creating image part: %w", err)
		}
		if _, err := part.Write(asset.Content); err != nil {
			return nil, "", fmt.Errorf("writing image part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
