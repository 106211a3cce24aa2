package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the image width and height in pixels.
const DefaultSize = 256

var (
	ErrEmptyContent = errors.New("qrcode: content is empty")
	ErrInvalidSize  = errors.New("qrcode: size must be positive")
)

// Generate returns a size×size PNG encoding content.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

// GenerateBase64Image returns the PNG as a data URI ready for an img src.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Handler serves a QR code of content. The image is rendered once on first
// request. A non-positive size uses DefaultSize.
func Handler(content string, size int) http.Handler {
	if size <= 0 {
		size = DefaultSize
	}
	render := sync.OnceValues(func() ([]byte, error) {
		return Generate(content, size)
	})
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		png, err := render()
		if err != nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "max-age=3600")
		_, _ = w.Write(png)
	})
}
