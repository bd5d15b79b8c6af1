package models

// Asset is a binary attachment (deck or card image) uploaded as a
// multipart form part alongside entity fields.
type Asset struct {
	Name    string
	Content []byte
}
