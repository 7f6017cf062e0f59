package ddl

import (
	"bytes"
	"errors"
	"fmt"
)

// Pixel buffer errors.
var (
	ErrInvalidDescriptor = errors.New("ddl: invalid image descriptor")
	ErrInvalidRowBytes   = errors.New("ddl: row bytes smaller than minimum stride")
	ErrShortPixelData    = errors.New("ddl: pixel data shorter than descriptor requires")
)

// PixelBuffer is an immutable block of decoded pixel memory together with the
// descriptor that gives it meaning. The constructor copies the source bytes,
// so a buffer never aliases caller-owned memory and is safe to share across
// goroutines without synchronization.
type PixelBuffer struct {
	desc     ImageDescriptor
	rowBytes int
	data     []byte
}

// NewPixelBuffer copies data into a new buffer described by desc. rowBytes is
// the source stride; pass 0 for tightly packed rows. The data must cover
// rowBytes*(height-1) + width*bytesPerPixel bytes.
func NewPixelBuffer(desc ImageDescriptor, data []byte, rowBytes int) (*PixelBuffer, error) {
	if !desc.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDescriptor, desc)
	}
	if rowBytes == 0 {
		rowBytes = desc.MinRowBytes()
	}
	if rowBytes < desc.MinRowBytes() {
		return nil, fmt.Errorf("%w: %d < %d", ErrInvalidRowBytes, rowBytes, desc.MinRowBytes())
	}
	need := rowBytes*(desc.Height-1) + desc.MinRowBytes()
	if len(data) < need {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrShortPixelData, len(data), need)
	}
	buf := make([]byte, need)
	copy(buf, data[:need])
	return &PixelBuffer{desc: desc, rowBytes: rowBytes, data: buf}, nil
}

// Descriptor returns the buffer's descriptor.
func (p *PixelBuffer) Descriptor() ImageDescriptor { return p.desc }

// Width returns the buffer width in pixels.
func (p *PixelBuffer) Width() int { return p.desc.Width }

// Height returns the buffer height in pixels.
func (p *PixelBuffer) Height() int { return p.desc.Height }

// RowBytes returns the stride between rows in bytes.
func (p *PixelBuffer) RowBytes() int { return p.rowBytes }

// Data returns the raw pixel bytes. The slice is owned by the buffer and
// must be treated as read-only.
func (p *PixelBuffer) Data() []byte { return p.data }

// Equal reports whether two buffers have the same descriptor and identical
// pixel content. Strides may differ; comparison is row by row over the
// meaningful bytes.
func (p *PixelBuffer) Equal(other *PixelBuffer) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil {
		return false
	}
	if p.desc != other.desc {
		return false
	}
	w := p.desc.MinRowBytes()
	for y := 0; y < p.desc.Height; y++ {
		a := p.data[y*p.rowBytes : y*p.rowBytes+w]
		b := other.data[y*other.rowBytes : y*other.rowBytes+w]
		if !bytes.Equal(a, b) {
			return false
		}
	}
	return true
}
