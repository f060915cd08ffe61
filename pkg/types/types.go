package types

import "fmt"

// Language identifies a display language accepted by the analysis service.
// The string value is sent verbatim in the submission payload.
type Language string

const (
	English Language = "English"
	Hindi   Language = "Hindi"
	Bengali Language = "Bengali"
)

// Languages lists all supported display languages.
func Languages() []Language {
	return []Language{English, Hindi, Bengali}
}

// ParseLanguage validates a language name supplied by the caller.
func ParseLanguage(s string) (Language, error) {
	for _, l := range Languages() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language: %q (supported: English, Hindi, Bengali)", s)
}

// ImageBlob is an uploaded image as received from the caller.
type ImageBlob struct {
	Data      []byte
	MediaType string
	Filename  string
	Size      int64
}

// NormalizedImage is a resized, JPEG re-encoded copy of an uploaded image
// bounded to a maximum edge length. The filename extension is always .jpg.
type NormalizedImage struct {
	Data      []byte
	MediaType string
	Filename  string
	Width     int
	Height    int
}
