package ddl

import (
	"errors"
	"testing"
)

func grayBuffer(t *testing.T, w, h int) *PixelBuffer {
	t.Helper()
	desc := ImageDescriptor{Width: w, Height: h, ColorType: ColorTypeGray8}
	buf, err := NewPixelBuffer(desc, make([]byte, desc.ByteSize()), 0)
	if err != nil {
		t.Fatalf("NewPixelBuffer() error = %v", err)
	}
	return buf
}

func TestImageUniqueIDs(t *testing.T) {
	a, err := NewImage(grayBuffer(t, 2, 2))
	if err != nil {
		t.Fatalf("NewImage() error = %v", err)
	}
	b, err := NewImage(grayBuffer(t, 2, 2))
	if err != nil {
		t.Fatalf("NewImage() error = %v", err)
	}
	if a.UniqueID() == 0 || b.UniqueID() == 0 {
		t.Error("UniqueID() must never be zero")
	}
	if a.UniqueID() == b.UniqueID() {
		t.Errorf("distinct images share ID %d", a.UniqueID())
	}
}

func TestLazyImageMaterialize(t *testing.T) {
	desc := ImageDescriptor{Width: 2, Height: 2, ColorType: ColorTypeGray8}

	t.Run("decode runs once", func(t *testing.T) {
		calls := 0
		img, err := NewLazyImage(desc, func() (*PixelBuffer, error) {
			calls++
			return NewPixelBuffer(desc, []byte{1, 2, 3, 4}, 0)
		})
		if err != nil {
			t.Fatalf("NewLazyImage() error = %v", err)
		}
		first, err := img.Materialize()
		if err != nil {
			t.Fatalf("Materialize() error = %v", err)
		}
		second, err := img.Materialize()
		if err != nil {
			t.Fatalf("Materialize() error = %v", err)
		}
		if calls != 1 {
			t.Errorf("decode ran %d times, want 1", calls)
		}
		if first != second {
			t.Error("Materialize() should return the cached buffer")
		}
	})

	t.Run("decode failure is sticky", func(t *testing.T) {
		img, err := NewLazyImage(desc, func() (*PixelBuffer, error) {
			return nil, errors.New("corrupt stream")
		})
		if err != nil {
			t.Fatalf("NewLazyImage() error = %v", err)
		}
		if _, err := img.Materialize(); !errors.Is(err, ErrDecodeFailed) {
			t.Errorf("Materialize() error = %v, want ErrDecodeFailed", err)
		}
		if _, err := img.Materialize(); !errors.Is(err, ErrDecodeFailed) {
			t.Errorf("second Materialize() error = %v, want ErrDecodeFailed", err)
		}
	})

	t.Run("nil decoder rejected", func(t *testing.T) {
		if _, err := NewLazyImage(desc, nil); !errors.Is(err, ErrNoDecoder) {
			t.Errorf("NewLazyImage() error = %v, want ErrNoDecoder", err)
		}
	})
}

func TestYUVAImage(t *testing.T) {
	desc := ImageDescriptor{Width: 16, Height: 16, ColorType: ColorTypeRGBA8888}
	planes := makeTestPlanes(16, 16)

	img, err := NewYUVAImage(desc, planes)
	if err != nil {
		t.Fatalf("NewYUVAImage() error = %v", err)
	}

	got, ok := img.QueryYUVA()
	if !ok {
		t.Fatal("QueryYUVA() = false, want true")
	}
	if got.PlaneCount() != 3 {
		t.Errorf("PlaneCount() = %d, want 3", got.PlaneCount())
	}

	// Captured planes must not alias the caller's memory.
	planes.Planes[0].Data[0] = 0xFF
	if got.Planes[0].Data[0] == 0xFF {
		t.Error("captured plane aliases caller memory")
	}

	if _, err := img.Materialize(); !errors.Is(err, ErrNoDecoder) {
		t.Errorf("Materialize() on planar image error = %v, want ErrNoDecoder", err)
	}
}
