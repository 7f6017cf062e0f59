package ddl

import (
	"errors"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ErrNilSource is returned when a conversion is asked to materialize a nil
// Go image.
var ErrNilSource = errors.New("ddl: nil source image")

// FromGoImage converts any image.Image into a tightly packed unpremultiplied
// RGBA pixel buffer. Sources that are already *image.NRGBA with zero origin
// and tight stride are copied directly; everything else is redrawn through
// x/image/draw.
func FromGoImage(src image.Image) (*PixelBuffer, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	b := src.Bounds()
	desc := ImageDescriptor{
		Width:      b.Dx(),
		Height:     b.Dy(),
		ColorType:  ColorTypeRGBA8888,
		AlphaType:  AlphaTypeUnpremul,
		ColorSpace: ColorSpaceSRGB,
	}
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return NewPixelBuffer(desc, n.Pix, n.Stride)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return NewPixelBuffer(desc, dst.Pix, dst.Stride)
}
