package ddl

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Image errors.
var (
	ErrNoDecoder    = errors.New("ddl: image has no pixels and no decoder")
	ErrDecodeFailed = errors.New("ddl: image decode failed")
)

// nextImageID hands out process-unique image identities. IDs start at 1 so
// the zero value never collides with a real image.
var nextImageID atomic.Uint64

// Image is a source image with a process-unique identity. The identity is
// what the catalog deduplicates on: registering the same Image twice yields
// the same catalog index.
//
// An Image holds its pixels in exactly one of three forms: an eagerly decoded
// PixelBuffer, a decode function invoked on first materialization, or a YUVA
// plane decomposition.
type Image struct {
	id   uint64
	desc ImageDescriptor
	yuva *YUVAPlanes

	decodeOnce sync.Once
	decode     func() (*PixelBuffer, error)
	pixels     *PixelBuffer
	decodeErr  error
}

// NewImage wraps an already decoded pixel buffer.
func NewImage(pixels *PixelBuffer) (*Image, error) {
	if pixels == nil {
		return nil, ErrShortPixelData
	}
	return &Image{
		id:     nextImageID.Add(1),
		desc:   pixels.Descriptor(),
		pixels: pixels,
	}, nil
}

// NewLazyImage creates an image whose pixels are produced by decode on first
// use. The descriptor must match what decode will return.
func NewLazyImage(desc ImageDescriptor, decode func() (*PixelBuffer, error)) (*Image, error) {
	if !desc.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDescriptor, desc)
	}
	if decode == nil {
		return nil, ErrNoDecoder
	}
	return &Image{
		id:     nextImageID.Add(1),
		desc:   desc,
		decode: decode,
	}, nil
}

// NewYUVAImage creates an image backed by a planar decomposition. desc
// describes the full-resolution composite; the planes carry their own
// (possibly subsampled) descriptors. The decomposition is deep-copied.
func NewYUVAImage(desc ImageDescriptor, planes *YUVAPlanes) (*Image, error) {
	if !desc.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDescriptor, desc)
	}
	if planes == nil {
		return nil, ErrInvalidPlaneMapping
	}
	if err := planes.Validate(); err != nil {
		return nil, err
	}
	return &Image{
		id:   nextImageID.Add(1),
		desc: desc,
		yuva: planes.clone(),
	}, nil
}

// UniqueID returns the image's process-unique identity. Never zero.
func (i *Image) UniqueID() uint64 { return i.id }

// Descriptor returns the image's full-resolution descriptor.
func (i *Image) Descriptor() ImageDescriptor { return i.desc }

// Width returns the image width in pixels.
func (i *Image) Width() int { return i.desc.Width }

// Height returns the image height in pixels.
func (i *Image) Height() int { return i.desc.Height }

// QueryYUVA returns the planar decomposition if the image carries one.
func (i *Image) QueryYUVA() (*YUVAPlanes, bool) {
	if i.yuva == nil {
		return nil, false
	}
	return i.yuva, true
}

// Materialize returns the image's decoded pixels, running the decode function
// on first call. The result is cached; repeated calls return the same buffer.
// YUVA images have no composite pixel form and return ErrNoDecoder.
func (i *Image) Materialize() (*PixelBuffer, error) {
	if i.yuva != nil {
		return nil, fmt.Errorf("%w: planar image", ErrNoDecoder)
	}
	i.decodeOnce.Do(func() {
		if i.pixels != nil || i.decode == nil {
			return
		}
		px, err := i.decode()
		if err != nil {
			i.decodeErr = fmt.Errorf("%w: %w", ErrDecodeFailed, err)
			return
		}
		if px == nil {
			i.decodeErr = fmt.Errorf("%w: decoder returned nil", ErrDecodeFailed)
			return
		}
		i.pixels = px
	})
	if i.decodeErr != nil {
		return nil, i.decodeErr
	}
	if i.pixels == nil {
		return nil, ErrNoDecoder
	}
	return i.pixels, nil
}
