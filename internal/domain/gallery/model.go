package gallery

import (
	"errors"
	"net/url"
	"strings"
)

// MaxCaptionLength bounds image captions.
const MaxCaptionLength = 300

// Domain errors
var (
	ErrEmptyURL       = errors.New("image url cannot be empty")
	ErrInvalidURL     = errors.New("image url must be an http(s) or data url")
	ErrCaptionTooLong = errors.New("caption cannot exceed 300 characters")
	ErrNotFound       = errors.New("gallery image not found")
)

// Image is a public gallery picture.
type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Validate checks if the Image has valid data.
// PRE: Image struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Image) Validate() error {
	if strings.TrimSpace(i.URL) == "" {
		return ErrEmptyURL
	}
	if len(i.Caption) > MaxCaptionLength {
		return ErrCaptionTooLong
	}
	if strings.HasPrefix(i.URL, "data:image/") {
		return nil
	}
	u, err := url.Parse(i.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
