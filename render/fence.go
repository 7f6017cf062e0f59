// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// FenceHandle identifies a GPU synchronization object within its backend.
type FenceHandle uint64

// InvalidFenceHandle is the zero FenceHandle; no live fence ever has it.
const InvalidFenceHandle FenceHandle = 0

// FenceBackend creates and deletes GPU synchronization objects.
type FenceBackend interface {
	CreateFence() (FenceHandle, error)
	DeleteFence(h FenceHandle)
}

// Fence wraps a synchronization object with ownership semantics: a fence
// created through NewFence owns its handle and deletes it on Release, while
// a fence wrapping a handle the caller owns never deletes it.
type Fence struct {
	backend FenceBackend
	handle  FenceHandle
	owned   bool
}

// NewFence creates a fence that owns a freshly allocated handle.
func NewFence(b FenceBackend) (*Fence, error) {
	h, err := b.CreateFence()
	if err != nil {
		return nil, err
	}
	return &Fence{backend: b, handle: h, owned: true}, nil
}

// WrapFence adopts an existing handle without taking ownership.
func WrapFence(b FenceBackend, h FenceHandle) *Fence {
	return &Fence{backend: b, handle: h, owned: false}
}

// Handle returns the underlying handle, or InvalidFenceHandle after the
// fence has been released or abandoned.
func (f *Fence) Handle() FenceHandle { return f.handle }

// IsOwned reports whether Release will delete the handle.
func (f *Fence) IsOwned() bool { return f.owned }

// Release drops the handle, deleting the underlying object only when owned.
// Safe to call more than once.
func (f *Fence) Release() {
	if f.handle == InvalidFenceHandle {
		return
	}
	if f.owned {
		f.backend.DeleteFence(f.handle)
	}
	f.handle = InvalidFenceHandle
}

// Abandon drops the handle without deleting the underlying object, for use
// when the device itself is gone and handles are no longer meaningful.
func (f *Fence) Abandon() {
	f.handle = InvalidFenceHandle
}
