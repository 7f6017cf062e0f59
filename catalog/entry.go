package catalog

import (
	"github.com/gogpu/ddl"
)

// Entry is one deduplicated image in the catalog: its stable index, the
// unique ID of the source image it was captured from, the full-resolution
// descriptor, and the captured pixels in exactly one of two forms (a single
// pixel buffer or a YUVA plane decomposition).
//
// Everything except contexts is immutable after registration. The contexts
// slots are filled once by Upload and read-only afterwards.
type Entry struct {
	index      uint32
	originalID uint64
	desc       ddl.ImageDescriptor

	pixels *ddl.PixelBuffer
	yuva   *ddl.YUVAPlanes

	contexts [ddl.MaxPlanes]*CallbackContext
}

// Index returns the entry's stable catalog index.
func (e *Entry) Index() uint32 { return e.index }

// OriginalID returns the unique ID of the source image.
func (e *Entry) OriginalID() uint64 { return e.originalID }

// Descriptor returns the full-resolution descriptor.
func (e *Entry) Descriptor() ddl.ImageDescriptor { return e.desc }

// IsYUVA reports whether the entry holds a planar decomposition.
func (e *Entry) IsYUVA() bool { return e.yuva != nil }

// Pixels returns the captured pixel buffer for non-YUVA entries.
func (e *Entry) Pixels() *ddl.PixelBuffer { return e.pixels }

// Planes returns the captured decomposition for YUVA entries.
func (e *Entry) Planes() *ddl.YUVAPlanes { return e.yuva }

// Context returns the callback context for plane i, or nil before upload
// and for entries whose upload failed.
func (e *Entry) Context(i int) *CallbackContext { return e.contexts[i] }

// Uploaded reports whether the entry has backend textures.
func (e *Entry) Uploaded() bool { return e.contexts[0] != nil }
