// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/ddl"
)

// countingCallbacks records lifecycle calls for assertions.
type countingCallbacks struct {
	tex      BackendTexture
	valid    bool
	fulfills int
	releases int
	dones    int
}

func (c *countingCallbacks) Fulfill() (BackendTexture, bool) {
	c.fulfills++
	return c.tex, c.valid
}
func (c *countingCallbacks) Release() { c.releases++ }
func (c *countingCallbacks) Done()    { c.dones++ }

func testPlane(cb PromiseCallbacks) PromisePlane {
	desc := ddl.ImageDescriptor{Width: 8, Height: 8, ColorType: ddl.ColorTypeRGBA8888}
	return PromisePlane{Desc: desc, Format: TextureFormatFor(desc.ColorType), Callbacks: cb}
}

func TestPromiseImageLifecycle(t *testing.T) {
	cb := &countingCallbacks{tex: BackendTexture{ID: 1}, valid: true}
	pl := testPlane(cb)
	img := NewPromiseImage(pl.Desc, pl)

	texs, ok := img.FulfillAll()
	if !ok {
		t.Fatal("FulfillAll() reported invalid texture")
	}
	if len(texs) != 1 || texs[0].ID != 1 {
		t.Errorf("FulfillAll() = %v, want one texture with ID 1", texs)
	}
	img.ReleaseAll()

	img.EndLifetime()
	img.EndLifetime() // second call must be a no-op
	if cb.dones != 1 {
		t.Errorf("Done delivered %d times, want exactly 1", cb.dones)
	}
}

func TestYUVAPromiseImagePlanes(t *testing.T) {
	cbs := []*countingCallbacks{
		{tex: BackendTexture{ID: 1}, valid: true},
		{tex: BackendTexture{ID: 2}, valid: true},
		{tex: BackendTexture{ID: 3}, valid: true},
	}
	planes := make([]PromisePlane, len(cbs))
	for i, cb := range cbs {
		planes[i] = testPlane(cb)
	}
	desc := ddl.ImageDescriptor{Width: 8, Height: 8, ColorType: ddl.ColorTypeRGBA8888}
	img := NewYUVAPromiseImage(desc, ddl.YUVColorSpaceRec709, ddl.I420PlaneIndices, planes)

	if !img.IsYUVA() {
		t.Error("IsYUVA() = false, want true")
	}
	if img.PlaneCount() != 3 {
		t.Errorf("PlaneCount() = %d, want 3", img.PlaneCount())
	}
	if img.PlaneIndices() != ddl.I420PlaneIndices {
		t.Errorf("PlaneIndices() = %v, want I420", img.PlaneIndices())
	}

	img.EndLifetime()
	for i, cb := range cbs {
		if cb.dones != 1 {
			t.Errorf("plane %d received %d Done calls, want 1", i, cb.dones)
		}
	}
}

func TestPromiseRecorder(t *testing.T) {
	r := NewPromiseRecorder()
	desc := ddl.ImageDescriptor{Width: 4, Height: 4, ColorType: ddl.ColorTypeRGBA8888}

	t.Run("single plane", func(t *testing.T) {
		img, err := r.MakePromiseImage(desc, testPlane(&countingCallbacks{valid: true}))
		if err != nil {
			t.Fatalf("MakePromiseImage() error = %v", err)
		}
		if img.Descriptor() != desc {
			t.Errorf("Descriptor() = %v, want %v", img.Descriptor(), desc)
		}
	})

	t.Run("rejects empty planes", func(t *testing.T) {
		_, err := r.MakeYUVAPromiseImage(desc, ddl.YUVColorSpaceRec601, ddl.I420PlaneIndices, nil)
		if err == nil {
			t.Error("MakeYUVAPromiseImage() with no planes should fail")
		}
	})

	t.Run("rejects too many planes", func(t *testing.T) {
		planes := make([]PromisePlane, ddl.MaxPlanes+1)
		for i := range planes {
			planes[i] = testPlane(&countingCallbacks{valid: true})
		}
		_, err := r.MakeYUVAPromiseImage(desc, ddl.YUVColorSpaceRec601, ddl.I420PlaneIndices, planes)
		if err == nil {
			t.Error("MakeYUVAPromiseImage() with too many planes should fail")
		}
	})

	if got := r.Minted(); got != 1 {
		t.Errorf("Minted() = %d, want 1", got)
	}
}
