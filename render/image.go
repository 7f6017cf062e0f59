// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/ddl"

// Image is anything a reinflated display list can draw: a promise image
// backed by a catalog texture, or a raster image backed by CPU pixels.
type Image interface {
	// Descriptor returns the image's full-resolution descriptor.
	Descriptor() ddl.ImageDescriptor
}

// RasterImage is a CPU-resident image. The catalog hands these out for
// entries whose texture upload failed, so reinflation still produces a
// drawable image with identical pixels.
type RasterImage struct {
	pixels *ddl.PixelBuffer
}

// NewRasterImage wraps a pixel buffer.
func NewRasterImage(pixels *ddl.PixelBuffer) *RasterImage {
	return &RasterImage{pixels: pixels}
}

// Descriptor returns the pixel buffer's descriptor.
func (r *RasterImage) Descriptor() ddl.ImageDescriptor { return r.pixels.Descriptor() }

// Pixels returns the backing pixel buffer.
func (r *RasterImage) Pixels() *ddl.PixelBuffer { return r.pixels }
