package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotFound is returned when an asset path does not exist in the store
var ErrNotFound = errors.New("asset not found")

// Store opens read-only assets such as shader sources and texture images
type Store interface {
	Open(path string) (io.ReadCloser, error)
}

// FS is a Store backed by an fs.FS, for example an embed.FS or os.DirFS
type FS struct {
	fsys fs.FS
}

func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

func (s *FS) Open(path string) (io.ReadCloser, error) {
	f, err := s.fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open asset %s: %w", path, err)
	}
	return f, nil
}

// ReadText reads the whole asset as a string and closes it
func ReadText(s Store, path string) (string, error) {
	r, err := s.Open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read asset %s: %w", path, err)
	}
	return string(data), nil
}

// DecodeImage decodes an image asset into tightly packed RGBA pixels
func DecodeImage(s Store, path string) (*image.RGBA, error) {
	r, err := s.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}
