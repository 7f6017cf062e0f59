// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/ddl"
)

// Recorder errors.
var (
	ErrNoPlanes      = errors.New("render: promise image needs at least one plane")
	ErrTooManyPlanes = errors.New("render: promise image exceeds plane limit")
)

// Recorder mints promise images during display-list reinflation. Each
// concurrent reinflation owns its own Recorder; implementations need not be
// safe for concurrent use.
type Recorder interface {
	// MakePromiseImage mints a single-plane promise image.
	MakePromiseImage(desc ddl.ImageDescriptor, plane PromisePlane) (Image, error)

	// MakeYUVAPromiseImage mints a multi-plane promise image from up to
	// ddl.MaxPlanes planes, the channel mapping, and the conversion color
	// space.
	MakeYUVAPromiseImage(desc ddl.ImageDescriptor, cs ddl.YUVColorSpace, indices ddl.PlaneIndices, planes []PromisePlane) (Image, error)
}

// PromiseRecorder is the default Recorder: it mints *PromiseImage values and
// counts them. It is the recorder used by tests and by CPU-side replay;
// GPU-side recorders wrap it or implement Recorder directly.
type PromiseRecorder struct {
	minted atomic.Uint64
}

// NewPromiseRecorder creates an empty recorder.
func NewPromiseRecorder() *PromiseRecorder { return &PromiseRecorder{} }

// MakePromiseImage mints a single-plane promise image.
func (r *PromiseRecorder) MakePromiseImage(desc ddl.ImageDescriptor, plane PromisePlane) (Image, error) {
	if plane.Callbacks == nil {
		return nil, fmt.Errorf("%w: nil callbacks", ErrNoPlanes)
	}
	r.minted.Add(1)
	return NewPromiseImage(desc, plane), nil
}

// MakeYUVAPromiseImage mints a multi-plane promise image.
func (r *PromiseRecorder) MakeYUVAPromiseImage(desc ddl.ImageDescriptor, cs ddl.YUVColorSpace, indices ddl.PlaneIndices, planes []PromisePlane) (Image, error) {
	if len(planes) == 0 {
		return nil, ErrNoPlanes
	}
	if len(planes) > ddl.MaxPlanes {
		return nil, fmt.Errorf("%w: %d", ErrTooManyPlanes, len(planes))
	}
	r.minted.Add(1)
	return NewYUVAPromiseImage(desc, cs, indices, planes), nil
}

// Minted returns the number of promise images this recorder has created.
func (r *PromiseRecorder) Minted() uint64 { return r.minted.Load() }

// Ensure PromiseRecorder implements Recorder.
var _ Recorder = (*PromiseRecorder)(nil)
