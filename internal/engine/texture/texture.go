// Package texture provides the Texture asset: image decoding, orientation
// and upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/Faultbox/simple-engine/internal/engine/gpu"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var decodable = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true, ".tga": true,
}

// Texture is an uploaded 2D texture.
type Texture struct {
	path   string
	width  int
	height int
	tex    gpu.Texture
}

// Options controls decoding.
type Options struct {
	// FlipVertically stores the first image row at the bottom, matching GL's
	// texture origin.
	FlipVertically bool
}

// DefaultOptions flips images vertically.
func DefaultOptions() Options {
	return Options{FlipVertically: true}
}

// Decode converts encoded image bytes to RGBA. The extension of name picks
// between the TGA decoder and the registered standard decoders.
func Decode(data []byte, name string, opts Options) (*image.RGBA, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !decodable[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	var rgba *image.RGBA
	if ext == ".tga" {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, err
		}
		rgba = img
	} else {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		rgba = clone.AsRGBA(img)
	}

	if opts.FlipVertically {
		rgba = transform.FlipV(rgba)
	}
	return rgba, nil
}

// New uploads an already decoded image.
func New(dev gpu.Device, path string, img *image.RGBA) (*Texture, error) {
	tex, err := dev.NewTexture(img)
	if err != nil {
		return nil, fmt.Errorf("uploading texture %s: %w", path, err)
	}
	return &Texture{
		path:   path,
		width:  img.Bounds().Dx(),
		height: img.Bounds().Dy(),
		tex:    tex,
	}, nil
}

// Load reads, decodes and uploads the image at path.
func Load(dev gpu.Device, path string, opts Options) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data, path, opts)
	if err != nil {
		return nil, err
	}
	return New(dev, path, img)
}

// Path returns the source path.
func (t *Texture) Path() string { return t.path }

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Bind binds the texture to a texture unit.
func (t *Texture) Bind(slot uint32) {
	if t.tex != nil {
		t.tex.Bind(slot)
	}
}

// Release frees the GPU texture.
func (t *Texture) Release() {
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}
