package pccasset

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/tiff"
	mst "github.com/flywave/go-mst"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"github.com/flywave/go-pccasset/upk"
)

// Texture image formats.
const (
	PNG  = "png"
	JPEG = "jpeg"
	BMP  = "bmp"
	TGA  = "tga"
	TIFF = "tiff"
	GIF  = "gif"
)

var errUnknownFormat = errors.New("unknown image format")

// TextureWriter exports decoded textures as image files named
// <Dir>/<name>.<format>.
type TextureWriter struct {
	Dir    string
	Format string
}

// NewTextureWriter returns a writer for dir; an empty format means png.
func NewTextureWriter(dir, format string) *TextureWriter {
	if format == "" {
		format = PNG
	}
	return &TextureWriter{Dir: dir, Format: strings.ToLower(format)}
}

// Path returns the file a texture named name is written to. Only the last
// path element of name is used, so the file always lands in Dir.
func (w *TextureWriter) Path(name string) string {
	ext := w.Format
	if ext == JPEG {
		ext = "jpg"
	}
	return filepath.Join(w.Dir, filepath.Base(name)+"."+ext)
}

// Write encodes tex and stores it. File system failures wrap ErrIOFailure.
func (w *TextureWriter) Write(name string, tex *upk.Texture2D) error {
	img, err := textureImage(tex)
	if err != nil {
		return fmt.Errorf("texture %s: %w", name, err)
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	f, err := os.Create(w.Path(name))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	if err := writeImage(f, img, w.Format); err != nil {
		f.Close()
		if errors.Is(err, errUnknownFormat) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return nil
}

// textureImage converts the decoded top mip to an NRGBA image.
func textureImage(tex *upk.Texture2D) (*image.NRGBA, error) {
	if tex.Width <= 0 || tex.Height <= 0 {
		return nil, fmt.Errorf("bad size %dx%d", tex.Width, tex.Height)
	}
	n := tex.Width * tex.Height
	img := image.NewNRGBA(image.Rect(0, 0, tex.Width, tex.Height))
	src := tex.Pixels
	dst := img.Pix
	switch tex.Format {
	case upk.PixelRGBA8, "":
		if len(src) < n*4 {
			return nil, fmt.Errorf("short pixel data: %d bytes", len(src))
		}
		copy(dst, src[:n*4])
	case upk.PixelBGRA8:
		if len(src) < n*4 {
			return nil, fmt.Errorf("short pixel data: %d bytes", len(src))
		}
		for i := 0; i < n; i++ {
			dst[i*4], dst[i*4+1], dst[i*4+2], dst[i*4+3] = src[i*4+2], src[i*4+1], src[i*4], src[i*4+3]
		}
	case upk.PixelG8:
		if len(src) < n {
			return nil, fmt.Errorf("short pixel data: %d bytes", len(src))
		}
		for i := 0; i < n; i++ {
			dst[i*4], dst[i*4+1], dst[i*4+2], dst[i*4+3] = src[i], src[i], src[i], 0xff
		}
	default:
		return nil, fmt.Errorf("pixel format %q not supported", tex.Format)
	}
	return img, nil
}

func writeImage(w io.Writer, img image.Image, ft string) error {
	switch ft {
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "png":
		return png.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tga":
		return tga.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, nil)
	default:
		return errUnknownFormat
	}
}

// mstTexture packs a decoded texture for embedding in an MST material.
func mstTexture(tex *upk.Texture2D, texId int) (*mst.Texture, error) {
	img, err := textureImage(tex)
	if err != nil {
		return nil, err
	}
	t := &mst.Texture{}
	t.Id = int32(texId)
	t.Format = mst.TEXTURE_FORMAT_RGBA
	t.Size = [2]uint64{uint64(tex.Width), uint64(tex.Height)}
	t.Compressed = mst.TEXTURE_COMPRESSED_ZLIB
	t.Data = mst.CompressImage(img.Pix)
	t.Repeated = true
	return t, nil
}
