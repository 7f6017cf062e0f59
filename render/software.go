// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ddl"
)

// Software backend errors.
var (
	ErrTextureTooLarge = errors.New("render: texture exceeds maximum dimension")
	ErrBadUpload       = errors.New("render: upload data does not match descriptor")
)

// defaultMaxTextureSize matches the guaranteed WebGPU minimum for 2D
// textures.
const defaultMaxTextureSize = 8192

// SoftwareBackend is an in-memory TextureBackend. "Textures" are tightly
// packed pixel copies held in a map; creation and deletion are counted so
// tests can assert on resource lifecycles. It also implements FenceBackend.
//
// SoftwareBackend is safe for concurrent use.
type SoftwareBackend struct {
	// MaxTextureSize caps texture dimensions. Set before first use.
	MaxTextureSize int

	mu       sync.Mutex
	textures map[TextureID][]byte
	fences   map[FenceHandle]struct{}

	nextTexID   atomic.Uint64
	nextFenceID atomic.Uint64
	created     atomic.Uint64
	deleted     atomic.Uint64
}

// NewSoftwareBackend creates an empty backend with the default size limit.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{
		MaxTextureSize: defaultMaxTextureSize,
		textures:       make(map[TextureID][]byte),
		fences:         make(map[FenceHandle]struct{}),
	}
}

// CreateTexture copies the meaningful bytes of the upload into a new
// in-memory texture.
func (b *SoftwareBackend) CreateTexture(desc ddl.ImageDescriptor, pixels []byte, rowBytes int) (BackendTexture, error) {
	if !desc.IsValid() {
		return BackendTexture{}, fmt.Errorf("%w: %s", ErrBadUpload, desc)
	}
	if desc.Width > b.MaxTextureSize || desc.Height > b.MaxTextureSize {
		return BackendTexture{}, fmt.Errorf("%w: %dx%d > %d", ErrTextureTooLarge, desc.Width, desc.Height, b.MaxTextureSize)
	}
	if rowBytes == 0 {
		rowBytes = desc.MinRowBytes()
	}
	need := rowBytes*(desc.Height-1) + desc.MinRowBytes()
	if rowBytes < desc.MinRowBytes() || len(pixels) < need {
		return BackendTexture{}, fmt.Errorf("%w: have %d bytes, stride %d", ErrBadUpload, len(pixels), rowBytes)
	}

	// Repack to tight rows so stored content is stride-independent.
	w := desc.MinRowBytes()
	stored := make([]byte, w*desc.Height)
	for y := 0; y < desc.Height; y++ {
		copy(stored[y*w:(y+1)*w], pixels[y*rowBytes:y*rowBytes+w])
	}

	id := TextureID(b.nextTexID.Add(1))
	b.mu.Lock()
	b.textures[id] = stored
	b.mu.Unlock()
	b.created.Add(1)

	return BackendTexture{
		ID:     id,
		Width:  uint32(desc.Width),  // #nosec G115 -- bounded by MaxTextureSize
		Height: uint32(desc.Height), // #nosec G115 -- bounded by MaxTextureSize
		Format: TextureFormatFor(desc.ColorType),
	}, nil
}

// DeleteTexture releases the texture. Unknown or invalid handles are
// ignored.
func (b *SoftwareBackend) DeleteTexture(tex BackendTexture) {
	if !tex.IsValid() {
		return
	}
	b.mu.Lock()
	_, ok := b.textures[tex.ID]
	delete(b.textures, tex.ID)
	b.mu.Unlock()
	if ok {
		b.deleted.Add(1)
	}
}

// TextureCount returns the number of live textures.
func (b *SoftwareBackend) TextureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.textures)
}

// TexturePixels returns the tightly packed pixel content of a live texture.
func (b *SoftwareBackend) TexturePixels(id TextureID) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.textures[id]
	return data, ok
}

// CreatedCount returns the total number of textures ever created.
func (b *SoftwareBackend) CreatedCount() uint64 { return b.created.Load() }

// DeletedCount returns the total number of textures ever deleted.
func (b *SoftwareBackend) DeletedCount() uint64 { return b.deleted.Load() }

// CreateFence allocates a software fence handle.
func (b *SoftwareBackend) CreateFence() (FenceHandle, error) {
	h := FenceHandle(b.nextFenceID.Add(1))
	b.mu.Lock()
	b.fences[h] = struct{}{}
	b.mu.Unlock()
	return h, nil
}

// DeleteFence releases a software fence handle.
func (b *SoftwareBackend) DeleteFence(h FenceHandle) {
	b.mu.Lock()
	delete(b.fences, h)
	b.mu.Unlock()
}

// FenceCount returns the number of live fences.
func (b *SoftwareBackend) FenceCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.fences)
}

// Ensure SoftwareBackend implements both backend interfaces.
var (
	_ TextureBackend = (*SoftwareBackend)(nil)
	_ FenceBackend   = (*SoftwareBackend)(nil)
)
