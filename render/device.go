// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ddl"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host application (e.g. a gogpu.App) implements DeviceHandle and passes
// it to texture backends, allowing the catalog to upload into the shared GPU
// device. The catalog RECEIVES the device from the host, it does not create
// one.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// catalog-specific name for the interface while maintaining full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only operation where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns unknown adapter info for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// TextureID identifies a texture within its backend.
type TextureID uint64

// InvalidTextureID is the zero TextureID; no live texture ever has it.
const InvalidTextureID TextureID = 0

// BackendTexture is an opaque handle to a GPU texture created by a
// TextureBackend. It is a small value type: copying it does not duplicate
// the underlying resource.
type BackendTexture struct {
	ID     TextureID
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// IsValid reports whether the handle refers to a live texture.
func (t BackendTexture) IsValid() bool { return t.ID != InvalidTextureID }

// TextureBackend creates and deletes backend textures. Implementations must
// be safe for concurrent CreateTexture calls only if documented; the catalog
// calls CreateTexture single-threaded during upload and DeleteTexture from
// whichever goroutine drops the final context reference.
type TextureBackend interface {
	// CreateTexture allocates a texture matching desc and uploads the given
	// pixels. rowBytes is the source stride in bytes.
	CreateTexture(desc ddl.ImageDescriptor, pixels []byte, rowBytes int) (BackendTexture, error)

	// DeleteTexture releases the texture. Invalid handles are ignored.
	DeleteTexture(tex BackendTexture)
}

// TextureFormatFor maps a pixel color type to the backend texture format
// used for its upload. Unknown color types map to TextureFormatUndefined.
func TextureFormatFor(ct ddl.ColorType) gputypes.TextureFormat {
	switch ct {
	case ddl.ColorTypeAlpha8, ddl.ColorTypeGray8:
		return gputypes.TextureFormatR8Unorm
	case ddl.ColorTypeRGBA8888:
		return gputypes.TextureFormatRGBA8Unorm
	case ddl.ColorTypeBGRA8888:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}
