// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucanvas

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/ddl"
	"github.com/gogpu/ddl/render"
)

// mockTexture implements the texture interfaces for testing.
type mockTexture struct {
	width     int
	height    int
	data      []byte
	destroyed bool
	updated   int
}

func (m *mockTexture) UpdateData(data []byte) error {
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.updated++
	return nil
}

func (m *mockTexture) Destroy() {
	m.destroyed = true
}

// mockCreator implements TextureCreator for testing.
type mockCreator struct {
	textures []*mockTexture
	failNext bool
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (any, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	tex := &mockTexture{width: width, height: height}
	tex.data = make([]byte, len(data))
	copy(tex.data, data)
	m.textures = append(m.textures, tex)
	return tex, nil
}

func TestNewRejectsNilCreator(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilCreator) {
		t.Errorf("New(nil) error = %v, want ErrNilCreator", err)
	}
}

func TestCreateTextureRGBA(t *testing.T) {
	mc := &mockCreator{}
	b, err := New(mc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	desc := ddl.ImageDescriptor{Width: 2, Height: 1, ColorType: ddl.ColorTypeRGBA8888}
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	tex, err := b.CreateTexture(desc, src, 0)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if !tex.IsValid() {
		t.Fatal("created texture is not valid")
	}
	if len(mc.textures) != 1 {
		t.Fatalf("creator received %d textures, want 1", len(mc.textures))
	}
	if !bytes.Equal(mc.textures[0].data, src) {
		t.Errorf("uploaded data = %v, want %v", mc.textures[0].data, src)
	}
	if b.TextureCount() != 1 {
		t.Errorf("TextureCount() = %d, want 1", b.TextureCount())
	}
}

func TestCreateTextureConversions(t *testing.T) {
	tests := []struct {
		name   string
		desc   ddl.ImageDescriptor
		pixels []byte
		stride int
		want   []byte
	}{
		{
			name:   "BGRA swizzle",
			desc:   ddl.ImageDescriptor{Width: 1, Height: 1, ColorType: ddl.ColorTypeBGRA8888},
			pixels: []byte{10, 20, 30, 40},
			want:   []byte{30, 20, 10, 40},
		},
		{
			name:   "gray expands opaque",
			desc:   ddl.ImageDescriptor{Width: 1, Height: 1, ColorType: ddl.ColorTypeGray8},
			pixels: []byte{128},
			want:   []byte{128, 128, 128, 255},
		},
		{
			name:   "alpha fills alpha channel",
			desc:   ddl.ImageDescriptor{Width: 1, Height: 1, ColorType: ddl.ColorTypeAlpha8},
			pixels: []byte{200},
			want:   []byte{0, 0, 0, 200},
		},
		{
			name:   "padded stride dropped",
			desc:   ddl.ImageDescriptor{Width: 1, Height: 2, ColorType: ddl.ColorTypeRGBA8888},
			pixels: []byte{1, 2, 3, 4, 0, 0, 0, 0, 5, 6, 7, 8, 0, 0, 0, 0},
			stride: 8,
			want:   []byte{1, 2, 3, 4, 5, 6, 7, 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := &mockCreator{}
			b, err := New(mc)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if _, err := b.CreateTexture(tt.desc, tt.pixels, tt.stride); err != nil {
				t.Fatalf("CreateTexture() error = %v", err)
			}
			if got := mc.textures[0].data; !bytes.Equal(got, tt.want) {
				t.Errorf("uploaded data = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateTextureFailurePropagates(t *testing.T) {
	mc := &mockCreator{failNext: true}
	b, err := New(mc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	desc := ddl.ImageDescriptor{Width: 1, Height: 1, ColorType: ddl.ColorTypeRGBA8888}
	if _, err := b.CreateTexture(desc, []byte{1, 2, 3, 4}, 0); err == nil {
		t.Error("CreateTexture() should propagate creator failure")
	}
	if b.TextureCount() != 0 {
		t.Errorf("TextureCount() = %d, want 0 after failure", b.TextureCount())
	}
}

func TestDeleteTextureDestroys(t *testing.T) {
	mc := &mockCreator{}
	b, err := New(mc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	desc := ddl.ImageDescriptor{Width: 1, Height: 1, ColorType: ddl.ColorTypeRGBA8888}
	tex, err := b.CreateTexture(desc, []byte{1, 2, 3, 4}, 0)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}

	b.DeleteTexture(tex)
	if !mc.textures[0].destroyed {
		t.Error("host texture was not destroyed")
	}
	if b.TextureCount() != 0 {
		t.Errorf("TextureCount() = %d, want 0", b.TextureCount())
	}

	// Repeat and invalid deletes are harmless.
	b.DeleteTexture(tex)
	b.DeleteTexture(render.BackendTexture{})
}

func TestUpdateTexture(t *testing.T) {
	mc := &mockCreator{}
	b, err := New(mc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	desc := ddl.ImageDescriptor{Width: 1, Height: 1, ColorType: ddl.ColorTypeRGBA8888}
	tex, err := b.CreateTexture(desc, []byte{1, 2, 3, 4}, 0)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}

	if err := b.UpdateTexture(tex.ID, desc, []byte{9, 9, 9, 9}, 0); err != nil {
		t.Fatalf("UpdateTexture() error = %v", err)
	}
	if mc.textures[0].updated != 1 {
		t.Errorf("texture updated %d times, want 1", mc.textures[0].updated)
	}
	if !bytes.Equal(mc.textures[0].data, []byte{9, 9, 9, 9}) {
		t.Errorf("updated data = %v, want [9 9 9 9]", mc.textures[0].data)
	}

	if err := b.UpdateTexture(999, desc, []byte{1, 2, 3, 4}, 0); err == nil {
		t.Error("UpdateTexture() of unknown texture should fail")
	}
}

func TestCatalogUploadThroughHostCreator(t *testing.T) {
	mc := &mockCreator{}
	b, err := New(mc)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	desc := ddl.ImageDescriptor{Width: 4, Height: 4, ColorType: ddl.ColorTypeBGRA8888}
	tex, err := b.CreateTexture(desc, make([]byte, desc.ByteSize()), 0)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	// The handle reports the converted format, not the source one.
	if tex.Format != render.TextureFormatFor(ddl.ColorTypeRGBA8888) {
		t.Errorf("handle format = %v, want RGBA8Unorm", tex.Format)
	}
	host, ok := b.Texture(tex.ID)
	if !ok {
		t.Fatal("Texture() lookup failed for live handle")
	}
	if host != any(mc.textures[0]) {
		t.Error("Texture() returned a different host object")
	}
}
