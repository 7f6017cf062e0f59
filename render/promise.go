// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ddl"
)

// PromiseCallbacks is the lifecycle contract between a promise image and the
// owner of its backing texture.
//
//   - Fulfill runs when a draw first needs the texture. It is idempotent and
//     reports whether the handle is valid.
//   - Release signals the end of a draw pass that used the texture.
//   - Done signals that the promise image itself is dead and will never
//     fulfill again. Exactly one Done call is owed per mint.
type PromiseCallbacks interface {
	Fulfill() (BackendTexture, bool)
	Release()
	Done()
}

// PromisePlane pairs one plane's descriptor and texture format with the
// callbacks that yield its texture.
type PromisePlane struct {
	Desc      ddl.ImageDescriptor
	Format    gputypes.TextureFormat
	Callbacks PromiseCallbacks
}

// PromiseImage is an image whose texture content arrives later, through its
// planes' callbacks. Single-plane images have exactly one plane; YUVA images
// have one per decomposed plane plus the channel mapping needed to
// reassemble them at sample time.
type PromiseImage struct {
	desc    ddl.ImageDescriptor
	planes  []PromisePlane
	yuva    bool
	yuvCS   ddl.YUVColorSpace
	indices ddl.PlaneIndices

	done atomic.Bool
}

// NewPromiseImage mints a single-plane promise image.
func NewPromiseImage(desc ddl.ImageDescriptor, plane PromisePlane) *PromiseImage {
	return &PromiseImage{desc: desc, planes: []PromisePlane{plane}}
}

// NewYUVAPromiseImage mints a multi-plane promise image.
func NewYUVAPromiseImage(desc ddl.ImageDescriptor, cs ddl.YUVColorSpace, indices ddl.PlaneIndices, planes []PromisePlane) *PromiseImage {
	return &PromiseImage{
		desc:    desc,
		planes:  planes,
		yuva:    true,
		yuvCS:   cs,
		indices: indices,
	}
}

// Descriptor returns the full-resolution descriptor.
func (p *PromiseImage) Descriptor() ddl.ImageDescriptor { return p.desc }

// IsYUVA reports whether the image is a planar decomposition.
func (p *PromiseImage) IsYUVA() bool { return p.yuva }

// YUVColorSpace returns the conversion color space for YUVA images.
func (p *PromiseImage) YUVColorSpace() ddl.YUVColorSpace { return p.yuvCS }

// PlaneIndices returns the channel-to-plane mapping for YUVA images.
func (p *PromiseImage) PlaneIndices() ddl.PlaneIndices { return p.indices }

// PlaneCount returns the number of planes.
func (p *PromiseImage) PlaneCount() int { return len(p.planes) }

// Plane returns the i-th plane.
func (p *PromiseImage) Plane(i int) PromisePlane { return p.planes[i] }

// FulfillAll resolves every plane's texture, simulating the start of a draw
// that samples the image. The second result is false if any plane failed to
// fulfill.
func (p *PromiseImage) FulfillAll() ([]BackendTexture, bool) {
	texs := make([]BackendTexture, len(p.planes))
	ok := true
	for i, pl := range p.planes {
		tex, valid := pl.Callbacks.Fulfill()
		texs[i] = tex
		ok = ok && valid
	}
	return texs, ok
}

// ReleaseAll signals the end of a draw pass on every plane.
func (p *PromiseImage) ReleaseAll() {
	for _, pl := range p.planes {
		pl.Callbacks.Release()
	}
}

// EndLifetime retires the promise image, delivering the one owed Done call
// to every plane. Safe to call more than once; only the first call has
// effect.
func (p *PromiseImage) EndLifetime() {
	if !p.done.CompareAndSwap(false, true) {
		return
	}
	for _, pl := range p.planes {
		pl.Callbacks.Done()
	}
}
