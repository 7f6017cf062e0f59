// Package catalog deduplicates the images embedded in a display list,
// uploads each one to the GPU exactly once, and resolves compact tokens back
// to images during reinflation.
//
// The intended flow is single-writer, multi-reader:
//
//  1. Serialize the list through a DeflateEncoder; every embedded image is
//     registered here and replaced by its 4-byte catalog token.
//  2. Upload once, on the thread that owns the TextureBackend.
//  3. Reinflate the blob any number of times, concurrently, one Recorder per
//     goroutine. Promise images minted for the same token share the same
//     texture through a reference-counted CallbackContext.
//  4. Close when every reinflated list has retired its promise images.
package catalog

import (
	"errors"
	"fmt"

	"github.com/gogpu/ddl"
	"github.com/gogpu/ddl/render"
	"github.com/gogpu/ddl/scene"
)

// Catalog errors.
var (
	ErrNilImage        = errors.New("catalog: nil image")
	ErrRegisterFailed  = errors.New("catalog: image registration failed")
	ErrUploadFailed    = errors.New("catalog: texture upload failed")
	ErrTokenOutOfRange = errors.New("catalog: token index out of range")
	ErrNilRecorder     = errors.New("catalog: nil recorder")
)

// State tracks the catalog's lifecycle phase. Transitions are driven by the
// single-writer call sequence; the state exists for diagnostics and teardown
// idempotence, not for runtime enforcement.
type State uint8

// Catalog lifecycle states.
const (
	StateOpen State = iota
	StateUploading
	StateReady
	StateTornDown
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	case StateUploading:
		return "Uploading"
	case StateReady:
		return "Ready"
	case StateTornDown:
		return "TornDown"
	}
	return "Unknown"
}

// Catalog is the deduplicated image store. Registration and upload are
// single-threaded; once Upload has returned, any number of goroutines may
// resolve tokens concurrently. Resolution touches no locks: entries are
// immutable and context reference counts are atomic.
type Catalog struct {
	entries []*Entry
	state   State
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// State returns the current lifecycle state.
func (c *Catalog) State() State { return c.state }

// Entry returns the i-th entry, or nil if out of range.
func (c *Catalog) Entry(i int) *Entry {
	if i < 0 || i >= len(c.entries) {
		return nil
	}
	return c.entries[i]
}

// RegisterOrFind returns the catalog index for the image, registering it on
// first sight. Lookup is by the image's unique ID, so registering the same
// image twice yields the same index. Registration captures the image's
// pixels immediately, forcing a lazy decode; decode failure is recoverable
// and reported as ErrRegisterFailed.
//
// Must not be called after Upload.
func (c *Catalog) RegisterOrFind(img *ddl.Image) (uint32, error) {
	if img == nil {
		return 0, ErrNilImage
	}
	id := img.UniqueID()
	// Linear scan: catalogs hold the images of one recorded list, small
	// enough that a map would not pay for itself.
	for _, e := range c.entries {
		if e.originalID == id {
			return e.index, nil
		}
	}

	e := &Entry{
		index:      uint32(len(c.entries)), // #nosec G115 -- entry count bounded well under uint32 max
		originalID: id,
		desc:       img.Descriptor(),
	}
	if yuva, ok := img.QueryYUVA(); ok {
		e.yuva = yuva
	} else {
		px, err := img.Materialize()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrRegisterFailed, err)
		}
		e.pixels = px
	}
	c.entries = append(c.entries, e)
	ddl.Logger().Debug("catalog: registered image",
		"index", e.index, "id", id, "desc", e.desc.String(), "yuva", e.yuva != nil)
	return e.index, nil
}

// Upload creates backend textures for every entry. Call exactly once, after
// all registration and before any reinflation, on the goroutine that owns
// the backend.
//
// A failed single-plane upload is non-fatal: the entry is left textureless
// and resolves to a CPU raster image for every recorder. A failed YUVA plane
// upload aborts the whole upload, because a planar entry cannot fall back to
// composite CPU pixels.
func (c *Catalog) Upload(backend render.TextureBackend) error {
	c.state = StateUploading
	for _, e := range c.entries {
		if e.yuva != nil {
			if err := c.uploadPlanes(backend, e); err != nil {
				return err
			}
			continue
		}
		tex, err := backend.CreateTexture(e.desc, e.pixels.Data(), e.pixels.RowBytes())
		if err != nil {
			ddl.Logger().Warn("catalog: texture creation failed, entry will resolve on CPU",
				"index", e.index, "desc", e.desc.String(), "err", err)
			continue
		}
		e.contexts[0] = NewOwnedContext(backend, tex)
	}
	c.state = StateReady
	return nil
}

func (c *Catalog) uploadPlanes(backend render.TextureBackend, e *Entry) error {
	for i, pl := range e.yuva.Planes {
		tex, err := backend.CreateTexture(pl.Desc, pl.Data, pl.RowBytes)
		if err != nil {
			return fmt.Errorf("%w: entry %d plane %d: %w", ErrUploadFailed, e.index, i, err)
		}
		e.contexts[i] = NewOwnedContext(backend, tex)
	}
	return nil
}

// ResolveImage turns a catalog token into an image for one recorder. Indexes
// past the end of the catalog indicate stream corruption and are fatal.
// Uploaded entries yield promise images whose contexts gain one reference
// per plane; textureless entries yield CPU raster images backed by the
// captured pixels.
//
// Safe for concurrent use once Upload has returned.
func (c *Catalog) ResolveImage(index uint32, rec render.Recorder) (render.Image, error) {
	if rec == nil {
		return nil, ErrNilRecorder
	}
	if int(index) >= len(c.entries) {
		return nil, fmt.Errorf("%w: %d of %d", ErrTokenOutOfRange, index, len(c.entries))
	}
	e := c.entries[index]

	if e.yuva != nil {
		n := len(e.yuva.Planes)
		planes := make([]render.PromisePlane, n)
		for i := 0; i < n; i++ {
			ctx := e.contexts[i]
			ctx.Ref()
			planes[i] = render.PromisePlane{
				Desc:      e.yuva.Planes[i].Desc,
				Format:    render.TextureFormatFor(e.yuva.Planes[i].Desc.ColorType),
				Callbacks: ctx,
			}
		}
		return rec.MakeYUVAPromiseImage(e.desc, e.yuva.ColorSpace, e.yuva.Indices, planes)
	}

	ctx := e.contexts[0]
	if ctx == nil {
		// Upload failed for this entry; every recorder gets the same CPU
		// raster fallback.
		return render.NewRasterImage(e.pixels), nil
	}
	ctx.Ref()
	return rec.MakePromiseImage(e.desc, render.PromisePlane{
		Desc:      e.desc,
		Format:    render.TextureFormatFor(e.desc.ColorType),
		Callbacks: ctx,
	})
}

// Reinflate deserializes a blob produced with this catalog's DeflateEncoder,
// resolving every token through the given recorder. It returns the list and
// the images produced for it, in resolution order. The image slice is
// bookkeeping only; image lifetimes are governed by their Done calls.
//
// Safe for concurrent use, one recorder per goroutine.
func (c *Catalog) Reinflate(blob []byte, rec render.Recorder) (*scene.List, []render.Image, error) {
	dec := NewInflateDecoder(c, rec)
	list, err := scene.Deserialize(blob, dec.Procs())
	if err != nil {
		return nil, nil, err
	}
	return list, dec.Images(), nil
}

// Deflate serializes a display list, registering every embedded image and
// replacing it with its catalog token. Images that fail registration are
// embedded as raw pixels instead.
func (c *Catalog) Deflate(list *scene.List) ([]byte, error) {
	enc := NewDeflateEncoder(c)
	return scene.Serialize(list, enc.Procs())
}

// Close tears the catalog down, dropping the catalog-held reference on every
// context. Owned textures whose count reaches zero are deleted immediately;
// textures still referenced by live promise images survive until their Done
// calls arrive. Close is idempotent.
func (c *Catalog) Close() {
	if c.state == StateTornDown {
		return
	}
	c.state = StateTornDown
	for _, e := range c.entries {
		for _, ctx := range e.contexts {
			if ctx != nil {
				ctx.Done()
			}
		}
	}
}
