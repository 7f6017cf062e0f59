package ddl

import "fmt"

// ColorType describes the channel layout and bit depth of pixel memory.
type ColorType uint8

// Supported color types.
const (
	ColorTypeUnknown ColorType = iota
	ColorTypeAlpha8            // single 8-bit alpha channel
	ColorTypeGray8             // single 8-bit luminance channel
	ColorTypeRGBA8888          // 8 bits per channel, R,G,B,A byte order
	ColorTypeBGRA8888          // 8 bits per channel, B,G,R,A byte order
)

// String returns the name of the color type.
func (c ColorType) String() string {
	switch c {
	case ColorTypeAlpha8:
		return "Alpha8"
	case ColorTypeGray8:
		return "Gray8"
	case ColorTypeRGBA8888:
		return "RGBA8888"
	case ColorTypeBGRA8888:
		return "BGRA8888"
	default:
		return "Unknown"
	}
}

// BytesPerPixel returns the size of one pixel in bytes, or 0 for
// ColorTypeUnknown.
func (c ColorType) BytesPerPixel() int {
	switch c {
	case ColorTypeAlpha8, ColorTypeGray8:
		return 1
	case ColorTypeRGBA8888, ColorTypeBGRA8888:
		return 4
	default:
		return 0
	}
}

// AlphaType describes how the alpha channel relates to the color channels.
type AlphaType uint8

// Supported alpha types.
const (
	AlphaTypeUnknown AlphaType = iota
	AlphaTypeOpaque            // all pixels fully opaque, alpha ignored
	AlphaTypePremul            // color channels premultiplied by alpha
	AlphaTypeUnpremul          // color channels independent of alpha
)

// String returns the name of the alpha type.
func (a AlphaType) String() string {
	switch a {
	case AlphaTypeOpaque:
		return "Opaque"
	case AlphaTypePremul:
		return "Premul"
	case AlphaTypeUnpremul:
		return "Unpremul"
	default:
		return "Unknown"
	}
}

// ColorSpace identifies the color space pixel values are encoded in.
// The catalog carries it through serialization but does not convert.
type ColorSpace uint8

// Supported color spaces.
const (
	ColorSpaceSRGB ColorSpace = iota
	ColorSpaceLinear
	ColorSpaceDisplayP3
)

// String returns the name of the color space.
func (s ColorSpace) String() string {
	switch s {
	case ColorSpaceSRGB:
		return "sRGB"
	case ColorSpaceLinear:
		return "Linear"
	case ColorSpaceDisplayP3:
		return "DisplayP3"
	default:
		return "Unknown"
	}
}

// ImageDescriptor captures everything needed to allocate pixel storage or a
// backend texture for an image: dimensions, channel layout, alpha treatment,
// and color space. It is a small value type and is copied freely.
type ImageDescriptor struct {
	Width      int
	Height     int
	ColorType  ColorType
	AlphaType  AlphaType
	ColorSpace ColorSpace
}

// IsValid reports whether the descriptor has positive dimensions and a known
// color type.
func (d ImageDescriptor) IsValid() bool {
	return d.Width > 0 && d.Height > 0 && d.ColorType.BytesPerPixel() > 0
}

// MinRowBytes returns the smallest valid stride for this descriptor:
// width times bytes per pixel, with no padding.
func (d ImageDescriptor) MinRowBytes() int {
	return d.Width * d.ColorType.BytesPerPixel()
}

// ByteSize returns the number of bytes a tightly packed buffer of this
// descriptor occupies.
func (d ImageDescriptor) ByteSize() int {
	return d.MinRowBytes() * d.Height
}

// String returns a compact human-readable form, e.g. "512x512 RGBA8888 Premul sRGB".
func (d ImageDescriptor) String() string {
	return fmt.Sprintf("%dx%d %s %s %s", d.Width, d.Height, d.ColorType, d.AlphaType, d.ColorSpace)
}
