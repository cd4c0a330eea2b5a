// Package scene moves imported models onto the GPU and draws them.
package scene

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/texture"
	"github.com/Faultbox/learngl/internal/logger"
)

// ErrEmptyImage is returned for a decoded image with zero width or height.
var ErrEmptyImage = errors.New("image has no pixels")

// TextureUploader decodes image files and uploads them as mipmapped,
// repeating 2D textures. It owns every texture it creates.
type TextureUploader struct {
	// FlipVertical stores images bottom row first.
	FlipVertical bool

	uploaded []uint32
	fallback uint32
	released bool
}

var _ model.TextureLoader = (*TextureUploader)(nil)

// NewTextureUploader creates an uploader. A GL context must be current.
func NewTextureUploader() *TextureUploader {
	return &TextureUploader{}
}

// Load decodes the image at path and returns its texture name.
func (u *TextureUploader) Load(path string) (uint32, error) {
	img, err := texture.DecodeFile(path)
	if err != nil {
		return 0, err
	}
	if img.Rect.Empty() {
		return 0, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	if u.FlipVertical {
		texture.FlipVertical(img)
	}

	id := uploadTexture(img)
	u.uploaded = append(u.uploaded, id)
	logger.Debug("texture uploaded",
		zap.String("path", path),
		zap.Uint32("id", id),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()),
	)
	return id, nil
}

// Fallback returns a 1x1 white texture, created on first use, for sampler
// slots a mesh does not fill.
func (u *TextureUploader) Fallback() uint32 {
	if u.fallback != 0 {
		return u.fallback
	}
	gl.GenTextures(1, &u.fallback)
	gl.BindTexture(gl.TEXTURE_2D, u.fallback)
	white := []uint8{255, 255, 255, 255}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	u.uploaded = append(u.uploaded, u.fallback)
	return u.fallback
}

// Uploads reports how many textures this uploader has created.
func (u *TextureUploader) Uploads() int {
	return len(u.uploaded)
}

// Release deletes every texture created by this uploader. Further calls
// are no-ops.
func (u *TextureUploader) Release() {
	if u.released {
		return
	}
	u.released = true
	if len(u.uploaded) > 0 {
		gl.DeleteTextures(int32(len(u.uploaded)), &u.uploaded[0])
	}
	logger.Debug("textures released", zap.Int("count", len(u.uploaded)))
	u.uploaded = nil
	u.fallback = 0
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}
