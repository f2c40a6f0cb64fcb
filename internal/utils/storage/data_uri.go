package storage

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid base64 data uri")

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type DataURI struct {
	ContentType string
	Data        []byte
}

// Extension returns the file extension for the payload, "bin" when unknown.
func (d DataURI) Extension() string {
	if ext, ok := extensions[d.ContentType]; ok {
		return ext
	}
	return "bin"
}

// ParseDataURI decodes "data:<type>;base64,<payload>".
func ParseDataURI(s string) (DataURI, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return DataURI{}, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURI{}, ErrInvalidDataURI
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || contentType == "" {
		return DataURI{}, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return DataURI{}, ErrInvalidDataURI
	}
	return DataURI{ContentType: contentType, Data: data}, nil
}
