package detection

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNoImage is returned when nothing was selected.
	ErrNoImage = errors.New("no image selected")
	// ErrNotImage is returned for payloads no registered decoder recognises.
	ErrNotImage = errors.New("file is not a supported image")
)

// Image describes the picture currently loaded in the detection panel. Only
// the header is decoded; the classifier never looks at the pixels.
type Image struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int    `json:"size"`
}

// inspectImage checks that data is a png, jpeg, gif, bmp or webp picture.
func inspectImage(name string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrNoImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", name, ErrNotImage)
	}
	return Image{
		Name:   name,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   len(data),
	}, nil
}

// ReadImageFile reads path from disk for SelectImage.
func ReadImageFile(path string) (string, []byte, error) {
	if path == "" {
		return "", nil, ErrNoImage
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read image: %w", err)
	}
	return filepath.Base(path), data, nil
}
