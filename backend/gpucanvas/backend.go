// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucanvas implements the texture backend on gogpu/gpucontext, for
// catalogs embedded in a host application that already owns a GPU context.
//
// The host passes its gpucontext.TextureDrawer (obtained from
// gogpu.Context.AsTextureDrawer()); textures are created through the
// drawer's TextureCreator and destroyed through their own Destroy method.
package gpucanvas

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ddl"
	"github.com/gogpu/ddl/render"
)

// Backend errors.
var (
	ErrNilCreator      = errors.New("gpucanvas: texture creator is nil")
	ErrInvalidUpload   = errors.New("gpucanvas: upload does not match descriptor")
	ErrUnsupportedType = errors.New("gpucanvas: unsupported color type")
)

// TextureCreator creates GPU textures from tightly packed RGBA pixels.
// gpucontext.TextureCreator satisfies it, so hosts pass the result of
// dc.TextureCreator() directly.
type TextureCreator interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
}

// textureDestroyer is implemented by textures that support destruction.
type textureDestroyer interface {
	Destroy()
}

// Backend creates catalog textures through a host TextureCreator. The
// creator consumes tightly packed RGBA, so non-RGBA uploads are converted on
// the CPU first.
//
// Backend is safe for concurrent use.
type Backend struct {
	creator TextureCreator

	mu       sync.Mutex
	textures map[render.TextureID]any
	nextID   atomic.Uint64
}

// New creates a backend over a host texture creator.
func New(creator TextureCreator) (*Backend, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	return &Backend{
		creator:  creator,
		textures: make(map[render.TextureID]any),
	}, nil
}

// creatorAdapter adapts a gpucontext.TextureCreator to the local
// TextureCreator signature.
type creatorAdapter struct{ c gpucontext.TextureCreator }

func (a creatorAdapter) NewTextureFromRGBA(width, height int, data []byte) (any, error) {
	return a.c.NewTextureFromRGBA(width, height, data)
}

// NewFromDrawer creates a backend from a host texture drawer.
func NewFromDrawer(dc gpucontext.TextureDrawer) (*Backend, error) {
	if dc == nil {
		return nil, ErrNilCreator
	}
	c := dc.TextureCreator()
	if c == nil {
		return nil, ErrNilCreator
	}
	return New(creatorAdapter{c})
}

// CreateTexture converts the pixels to tight RGBA and uploads them through
// the host creator.
func (b *Backend) CreateTexture(desc ddl.ImageDescriptor, pixels []byte, rowBytes int) (render.BackendTexture, error) {
	if !desc.IsValid() {
		return render.BackendTexture{}, fmt.Errorf("%w: %s", ErrInvalidUpload, desc)
	}
	if rowBytes == 0 {
		rowBytes = desc.MinRowBytes()
	}
	need := rowBytes*(desc.Height-1) + desc.MinRowBytes()
	if rowBytes < desc.MinRowBytes() || len(pixels) < need {
		return render.BackendTexture{}, fmt.Errorf("%w: have %d bytes, stride %d", ErrInvalidUpload, len(pixels), rowBytes)
	}

	rgba, err := toRGBA(desc, pixels, rowBytes)
	if err != nil {
		return render.BackendTexture{}, err
	}
	tex, err := b.creator.NewTextureFromRGBA(desc.Width, desc.Height, rgba)
	if err != nil {
		return render.BackendTexture{}, fmt.Errorf("gpucanvas: NewTextureFromRGBA failed: %w", err)
	}

	id := render.TextureID(b.nextID.Add(1))
	b.mu.Lock()
	b.textures[id] = tex
	b.mu.Unlock()

	ddl.Logger().Debug("gpucanvas: created catalog texture",
		"id", uint64(id), "desc", desc.String())

	return render.BackendTexture{
		ID:     id,
		Width:  uint32(desc.Width),  // #nosec G115 -- validated positive
		Height: uint32(desc.Height), // #nosec G115 -- validated positive
		Format: render.TextureFormatFor(ddl.ColorTypeRGBA8888),
	}, nil
}

// DeleteTexture destroys the host texture if it supports destruction.
// Unknown handles are ignored.
func (b *Backend) DeleteTexture(tex render.BackendTexture) {
	if !tex.IsValid() {
		return
	}
	b.mu.Lock()
	hostTex, ok := b.textures[tex.ID]
	if ok {
		delete(b.textures, tex.ID)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	if destroyer, ok := hostTex.(textureDestroyer); ok {
		destroyer.Destroy()
	}
}

// Texture returns the host texture object for a live handle, typically to
// pass to gpucontext.TextureDrawer.DrawTexture.
func (b *Backend) Texture(id render.TextureID) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tex, ok := b.textures[id]
	return tex, ok
}

// TextureCount returns the number of live textures.
func (b *Backend) TextureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.textures)
}

// UpdateTexture re-uploads pixels into an existing texture when the host
// texture supports in-place updates.
func (b *Backend) UpdateTexture(id render.TextureID, desc ddl.ImageDescriptor, pixels []byte, rowBytes int) error {
	b.mu.Lock()
	hostTex, ok := b.textures[id]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: unknown texture %d", ErrInvalidUpload, id)
	}
	updater, ok := hostTex.(gpucontext.TextureUpdater)
	if !ok {
		return fmt.Errorf("%w: texture does not support updates", ErrInvalidUpload)
	}
	if rowBytes == 0 {
		rowBytes = desc.MinRowBytes()
	}
	rgba, err := toRGBA(desc, pixels, rowBytes)
	if err != nil {
		return err
	}
	return updater.UpdateData(rgba)
}

// toRGBA repacks pixels into tight RGBA rows: RGBA passes through (minus
// stride padding), BGRA is swizzled, single-channel formats expand into the
// alpha or luminance interpretation of their color type.
func toRGBA(desc ddl.ImageDescriptor, pixels []byte, rowBytes int) ([]byte, error) {
	w, h := desc.Width, desc.Height
	out := make([]byte, w*h*4)
	switch desc.ColorType {
	case ddl.ColorTypeRGBA8888:
		for y := 0; y < h; y++ {
			copy(out[y*w*4:(y+1)*w*4], pixels[y*rowBytes:y*rowBytes+w*4])
		}
	case ddl.ColorTypeBGRA8888:
		for y := 0; y < h; y++ {
			row := pixels[y*rowBytes:]
			for x := 0; x < w; x++ {
				o := (y*w + x) * 4
				out[o+0] = row[x*4+2]
				out[o+1] = row[x*4+1]
				out[o+2] = row[x*4+0]
				out[o+3] = row[x*4+3]
			}
		}
	case ddl.ColorTypeGray8:
		for y := 0; y < h; y++ {
			row := pixels[y*rowBytes:]
			for x := 0; x < w; x++ {
				o := (y*w + x) * 4
				v := row[x]
				out[o+0], out[o+1], out[o+2], out[o+3] = v, v, v, 0xFF
			}
		}
	case ddl.ColorTypeAlpha8:
		for y := 0; y < h; y++ {
			row := pixels[y*rowBytes:]
			for x := 0; x < w; x++ {
				out[(y*w+x)*4+3] = row[x]
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, desc.ColorType)
	}
	return out, nil
}

// Ensure Backend implements the texture backend interface.
var _ render.TextureBackend = (*Backend)(nil)
