package ddl

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewPixelBuffer(t *testing.T) {
	desc := ImageDescriptor{Width: 4, Height: 2, ColorType: ColorTypeRGBA8888}

	t.Run("tight stride", func(t *testing.T) {
		data := make([]byte, desc.ByteSize())
		buf, err := NewPixelBuffer(desc, data, 0)
		if err != nil {
			t.Fatalf("NewPixelBuffer() error = %v", err)
		}
		if buf.RowBytes() != desc.MinRowBytes() {
			t.Errorf("RowBytes() = %d, want %d", buf.RowBytes(), desc.MinRowBytes())
		}
	})

	t.Run("padded stride", func(t *testing.T) {
		data := make([]byte, 24*2)
		buf, err := NewPixelBuffer(desc, data, 24)
		if err != nil {
			t.Fatalf("NewPixelBuffer() error = %v", err)
		}
		if buf.RowBytes() != 24 {
			t.Errorf("RowBytes() = %d, want 24", buf.RowBytes())
		}
	})

	t.Run("short data", func(t *testing.T) {
		_, err := NewPixelBuffer(desc, make([]byte, 10), 0)
		if !errors.Is(err, ErrShortPixelData) {
			t.Errorf("error = %v, want ErrShortPixelData", err)
		}
	})

	t.Run("undersized stride", func(t *testing.T) {
		_, err := NewPixelBuffer(desc, make([]byte, 64), 8)
		if !errors.Is(err, ErrInvalidRowBytes) {
			t.Errorf("error = %v, want ErrInvalidRowBytes", err)
		}
	})

	t.Run("invalid descriptor", func(t *testing.T) {
		_, err := NewPixelBuffer(ImageDescriptor{}, nil, 0)
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("error = %v, want ErrInvalidDescriptor", err)
		}
	})
}

func TestPixelBufferCopiesSource(t *testing.T) {
	desc := ImageDescriptor{Width: 2, Height: 1, ColorType: ColorTypeGray8}
	src := []byte{10, 20}
	buf, err := NewPixelBuffer(desc, src, 0)
	if err != nil {
		t.Fatalf("NewPixelBuffer() error = %v", err)
	}
	src[0] = 99
	if buf.Data()[0] != 10 {
		t.Errorf("buffer aliases caller memory: Data()[0] = %d, want 10", buf.Data()[0])
	}
}

func TestPixelBufferEqual(t *testing.T) {
	desc := ImageDescriptor{Width: 2, Height: 2, ColorType: ColorTypeGray8}
	a, _ := NewPixelBuffer(desc, []byte{1, 2, 3, 4}, 0)
	// Same pixels behind a padded stride.
	b, _ := NewPixelBuffer(desc, []byte{1, 2, 0, 0, 3, 4}, 4)
	c, _ := NewPixelBuffer(desc, []byte{1, 2, 3, 5}, 0)

	if !a.Equal(b) {
		t.Error("buffers with identical pixels but different strides should be equal")
	}
	if a.Equal(c) {
		t.Error("buffers with different pixels should not be equal")
	}
	if a.Equal(nil) {
		t.Error("buffer should not equal nil")
	}
}

func TestFromGoImage(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		if _, err := FromGoImage(nil); !errors.Is(err, ErrNilSource) {
			t.Errorf("error = %v, want ErrNilSource", err)
		}
	})

	t.Run("NRGBA fast path", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
		src.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
		buf, err := FromGoImage(src)
		if err != nil {
			t.Fatalf("FromGoImage() error = %v", err)
		}
		d := buf.Descriptor()
		if d.Width != 3 || d.Height != 2 || d.ColorType != ColorTypeRGBA8888 {
			t.Errorf("descriptor = %s, want 3x2 RGBA8888", d)
		}
		off := 1*buf.RowBytes() + 1*4
		got := buf.Data()[off : off+4]
		if got[0] != 200 || got[1] != 100 || got[2] != 50 || got[3] != 128 {
			t.Errorf("pixel (1,1) = %v, want [200 100 50 128]", got)
		}
	})

	t.Run("converted source", func(t *testing.T) {
		src := image.NewGray(image.Rect(2, 2, 6, 5))
		buf, err := FromGoImage(src)
		if err != nil {
			t.Fatalf("FromGoImage() error = %v", err)
		}
		if buf.Width() != 4 || buf.Height() != 3 {
			t.Errorf("size = %dx%d, want 4x3", buf.Width(), buf.Height())
		}
	})
}
