//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements the texture and fence backends on gogpu/wgpu's
// HAL, for catalogs uploading into a pure-Go WebGPU device.
package wgpu

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ddl"
	"github.com/gogpu/ddl/render"
)

// Backend errors.
var (
	ErrNilDevice       = errors.New("wgpu: device is nil")
	ErrNilQueue        = errors.New("wgpu: queue is nil")
	ErrInvalidSize     = errors.New("wgpu: invalid texture size")
	ErrUnsupportedType = errors.New("wgpu: unsupported color type")
)

// Backend creates catalog textures directly on a HAL device. Uploads go
// through Queue.WriteTexture; the texture handle map lets DeleteTexture run
// from whichever goroutine drops the final promise reference.
//
// Backend is safe for concurrent use.
type Backend struct {
	mu      sync.RWMutex
	device  hal.Device
	queue   hal.Queue
	maxDim  uint32
	nextID  atomic.Uint64
	nextFen atomic.Uint64

	textures map[render.TextureID]hal.Texture
	fences   map[render.FenceHandle]hal.Fence
}

// New creates a backend over an existing HAL device and queue. limits may be
// nil, in which case the WebGPU default limits apply.
func New(device hal.Device, queue hal.Queue, limits *types.Limits) (*Backend, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	if limits == nil {
		l := types.DefaultLimits()
		limits = &l
	}
	return &Backend{
		device:   device,
		queue:    queue,
		maxDim:   limits.MaxTextureDimension2D,
		textures: make(map[render.TextureID]hal.Texture),
		fences:   make(map[render.FenceHandle]hal.Fence),
	}, nil
}

// CreateTexture allocates a 2D texture and uploads the pixels through the
// queue.
func (b *Backend) CreateTexture(desc ddl.ImageDescriptor, pixels []byte, rowBytes int) (render.BackendTexture, error) {
	if !desc.IsValid() {
		return render.BackendTexture{}, fmt.Errorf("%w: %s", ErrInvalidSize, desc)
	}
	// #nosec G115 -- IsValid guarantees positive dimensions
	w, h := uint32(desc.Width), uint32(desc.Height)
	if w > b.maxDim || h > b.maxDim {
		return render.BackendTexture{}, fmt.Errorf("%w: %dx%d exceeds limit %d", ErrInvalidSize, w, h, b.maxDim)
	}
	format, ok := halFormat(desc.ColorType)
	if !ok {
		return render.BackendTexture{}, fmt.Errorf("%w: %s", ErrUnsupportedType, desc.ColorType)
	}
	if rowBytes == 0 {
		rowBytes = desc.MinRowBytes()
	}

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: "ddl-catalog",
		Size: hal.Extent3D{
			Width:              w,
			Height:             h,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        format,
		Usage:         types.TextureUsageCopyDst | types.TextureUsageTextureBinding,
	})
	if err != nil {
		return render.BackendTexture{}, fmt.Errorf("wgpu: create texture: %w", err)
	}

	dst := &hal.ImageCopyTexture{
		Texture:  tex,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   types.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(rowBytes), // #nosec G115 -- strides bounded by texture limits
		RowsPerImage: h,
	}
	size := &hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	b.queue.WriteTexture(dst, pixels, layout, size)

	id := render.TextureID(b.nextID.Add(1))
	b.mu.Lock()
	b.textures[id] = tex
	b.mu.Unlock()

	ddl.Logger().Debug("wgpu: created catalog texture",
		"id", uint64(id), "desc", desc.String(), "bytes", len(pixels))

	return render.BackendTexture{
		ID:     id,
		Width:  w,
		Height: h,
		Format: render.TextureFormatFor(desc.ColorType),
	}, nil
}

// DeleteTexture releases the HAL texture. Unknown handles are ignored.
func (b *Backend) DeleteTexture(tex render.BackendTexture) {
	if !tex.IsValid() {
		return
	}
	b.mu.Lock()
	halTex, ok := b.textures[tex.ID]
	if ok {
		delete(b.textures, tex.ID)
	}
	b.mu.Unlock()
	if ok {
		b.device.DestroyTexture(halTex)
	}
}

// TextureCount returns the number of live textures.
func (b *Backend) TextureCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.textures)
}

// CreateFence allocates a HAL fence.
func (b *Backend) CreateFence() (render.FenceHandle, error) {
	fence, err := b.device.CreateFence()
	if err != nil {
		return render.InvalidFenceHandle, fmt.Errorf("wgpu: create fence: %w", err)
	}
	h := render.FenceHandle(b.nextFen.Add(1))
	b.mu.Lock()
	b.fences[h] = fence
	b.mu.Unlock()
	return h, nil
}

// DeleteFence releases a HAL fence. Unknown handles are ignored.
func (b *Backend) DeleteFence(h render.FenceHandle) {
	b.mu.Lock()
	fence, ok := b.fences[h]
	if ok {
		delete(b.fences, h)
	}
	b.mu.Unlock()
	if ok {
		b.device.DestroyFence(fence)
	}
}

// halFormat maps a pixel color type to the HAL texture format.
func halFormat(ct ddl.ColorType) (types.TextureFormat, bool) {
	switch ct {
	case ddl.ColorTypeAlpha8, ddl.ColorTypeGray8:
		return types.TextureFormatR8Unorm, true
	case ddl.ColorTypeRGBA8888:
		return types.TextureFormatRGBA8Unorm, true
	case ddl.ColorTypeBGRA8888:
		return types.TextureFormatBGRA8Unorm, true
	default:
		return 0, false
	}
}

// Ensure Backend implements both backend interfaces.
var (
	_ render.TextureBackend = (*Backend)(nil)
	_ render.FenceBackend   = (*Backend)(nil)
)
