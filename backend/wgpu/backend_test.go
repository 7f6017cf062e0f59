//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"testing"

	types "github.com/gogpu/gputypes"

	"github.com/gogpu/ddl"
)

func TestNewValidatesArguments(t *testing.T) {
	if _, err := New(nil, nil, nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("New(nil device) error = %v, want ErrNilDevice", err)
	}
}

func TestHALFormat(t *testing.T) {
	tests := []struct {
		name string
		ct   ddl.ColorType
		want types.TextureFormat
		ok   bool
	}{
		{"Alpha8", ddl.ColorTypeAlpha8, types.TextureFormatR8Unorm, true},
		{"Gray8", ddl.ColorTypeGray8, types.TextureFormatR8Unorm, true},
		{"RGBA8888", ddl.ColorTypeRGBA8888, types.TextureFormatRGBA8Unorm, true},
		{"BGRA8888", ddl.ColorTypeBGRA8888, types.TextureFormatBGRA8Unorm, true},
		{"Unknown", ddl.ColorTypeUnknown, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := halFormat(tt.ct)
			if ok != tt.ok {
				t.Fatalf("halFormat() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("halFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}
