package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/ddl"
)

// Serialization errors.
var (
	ErrBadMagic            = errors.New("scene: blob does not start with display-list magic")
	ErrUnsupportedVersion  = errors.New("scene: unsupported display-list version")
	ErrCorruptStream       = errors.New("scene: corrupt display-list stream")
	ErrUnknownOp           = errors.New("scene: unknown display-list op")
	ErrUnserializableImage = errors.New("scene: image cannot be serialized")
)

// Wire format: the magic and version travel uncompressed, everything after
// them is one zstd frame holding a little-endian command stream.
const (
	blobMagic   = "ggdl"
	blobVersion = 1
)

// Image node kinds inside the stream.
const (
	imageKindPayload = 0 // caller-substituted payload (catalog token)
	imageKindRaw     = 1 // inline raw pixels
)

// SerialProcs customizes serialization. A nil proc (or a false return)
// selects the default behavior.
type SerialProcs struct {
	// ImageProc returns the payload that stands in for an embedded image.
	// Returning false declines, and the serializer embeds the image's raw
	// pixels instead.
	ImageProc func(img Image) ([]byte, bool)
}

// DeserialProcs customizes deserialization.
type DeserialProcs struct {
	// ImageProc resolves a payload written by SerialProcs.ImageProc back to
	// an image. Required if the blob contains payload nodes.
	ImageProc func(payload []byte) (Image, error)
}

// materializer is how the serializer obtains pixels for the raw-embed
// fallback. *ddl.Image satisfies it.
type materializer interface {
	Materialize() (*ddl.PixelBuffer, error)
}

// Serialize encodes the list into a compressed blob. Embedded images go
// through procs.ImageProc when set; images the proc declines are embedded as
// raw pixels, which requires them to be materializable.
func Serialize(list *List, procs SerialProcs) ([]byte, error) {
	var body []byte
	body = binary.LittleEndian.AppendUint32(body, uint32(list.width))  // #nosec G115 -- surface sizes fit in 32 bits
	body = binary.LittleEndian.AppendUint32(body, uint32(list.height)) // #nosec G115 -- surface sizes fit in 32 bits
	body = binary.LittleEndian.AppendUint32(body, uint32(len(list.cmds)))

	for _, cmd := range list.cmds {
		body = append(body, byte(cmd.Op))
		switch cmd.Op {
		case OpFillRect:
			body = appendF32(body, cmd.Rect.MinX, cmd.Rect.MinY, cmd.Rect.MaxX, cmd.Rect.MaxY)
			body = appendF32(body, cmd.Color.R, cmd.Color.G, cmd.Color.B, cmd.Color.A)
		case OpDrawImage:
			body = appendF32(body, cmd.Transform.A, cmd.Transform.B, cmd.Transform.C,
				cmd.Transform.D, cmd.Transform.E, cmd.Transform.F)
			var err error
			body, err = appendImage(body, cmd.Image, procs)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownOp, cmd.Op)
		}
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	out := make([]byte, 0, len(blobMagic)+1+len(body)/2)
	out = append(out, blobMagic...)
	out = append(out, blobVersion)
	return enc.EncodeAll(body, out), nil
}

func appendImage(body []byte, img Image, procs SerialProcs) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrUnserializableImage)
	}
	if procs.ImageProc != nil {
		if payload, ok := procs.ImageProc(img); ok {
			body = append(body, imageKindPayload)
			body = binary.LittleEndian.AppendUint32(body, uint32(len(payload)))
			return append(body, payload...), nil
		}
	}
	m, ok := img.(materializer)
	if !ok {
		return nil, fmt.Errorf("%w: no pixel access", ErrUnserializableImage)
	}
	px, err := m.Materialize()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnserializableImage, err)
	}
	d := px.Descriptor()
	body = append(body, imageKindRaw)
	body = binary.LittleEndian.AppendUint32(body, uint32(d.Width))  // #nosec G115 -- validated positive
	body = binary.LittleEndian.AppendUint32(body, uint32(d.Height)) // #nosec G115 -- validated positive
	body = append(body, byte(d.ColorType), byte(d.AlphaType), byte(d.ColorSpace))
	body = binary.LittleEndian.AppendUint32(body, uint32(d.ByteSize()))
	// Tight rows, independent of the buffer's stride.
	w := d.MinRowBytes()
	for y := 0; y < d.Height; y++ {
		row := px.Data()[y*px.RowBytes() : y*px.RowBytes()+w]
		body = append(body, row...)
	}
	return body, nil
}

func appendF32(b []byte, vals ...float32) []byte {
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// Deserialize decodes a blob produced by Serialize. Payload image nodes are
// resolved through procs.ImageProc; raw image nodes become *ddl.Image values
// wrapping the embedded pixels.
func Deserialize(blob []byte, procs DeserialProcs) (*List, error) {
	if len(blob) < len(blobMagic)+1 || string(blob[:len(blobMagic)]) != blobMagic {
		return nil, ErrBadMagic
	}
	if v := blob[len(blobMagic)]; v != blobVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	body, err := dec.DecodeAll(blob[len(blobMagic)+1:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptStream, err)
	}

	r := &reader{data: body}
	width := int(r.u32())
	height := int(r.u32())
	count := int(r.u32())
	if r.err != nil {
		return nil, r.err
	}

	list := NewList(width, height)
	for i := 0; i < count; i++ {
		op := Op(r.u8())
		switch op {
		case OpFillRect:
			var cmd Command
			cmd.Op = op
			cmd.Rect = Rect{MinX: r.f32(), MinY: r.f32(), MaxX: r.f32(), MaxY: r.f32()}
			cmd.Color = Color{R: r.f32(), G: r.f32(), B: r.f32(), A: r.f32()}
			list.cmds = append(list.cmds, cmd)
		case OpDrawImage:
			var cmd Command
			cmd.Op = op
			cmd.Transform = Affine{A: r.f32(), B: r.f32(), C: r.f32(), D: r.f32(), E: r.f32(), F: r.f32()}
			img, err := readImage(r, procs)
			if err != nil {
				return nil, err
			}
			cmd.Image = img
			list.cmds = append(list.cmds, cmd)
		default:
			if r.err != nil {
				return nil, r.err
			}
			return nil, fmt.Errorf("%w: %d at command %d", ErrUnknownOp, op, i)
		}
		if r.err != nil {
			return nil, r.err
		}
	}
	return list, nil
}

func readImage(r *reader, procs DeserialProcs) (Image, error) {
	switch kind := r.u8(); kind {
	case imageKindPayload:
		payload := r.bytes(int(r.u32()))
		if r.err != nil {
			return nil, r.err
		}
		if procs.ImageProc == nil {
			return nil, fmt.Errorf("%w: payload image without ImageProc", ErrCorruptStream)
		}
		return procs.ImageProc(payload)
	case imageKindRaw:
		desc := ddl.ImageDescriptor{
			Width:      int(r.u32()),
			Height:     int(r.u32()),
			ColorType:  ddl.ColorType(r.u8()),
			AlphaType:  ddl.AlphaType(r.u8()),
			ColorSpace: ddl.ColorSpace(r.u8()),
		}
		data := r.bytes(int(r.u32()))
		if r.err != nil {
			return nil, r.err
		}
		px, err := ddl.NewPixelBuffer(desc, data, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptStream, err)
		}
		return ddl.NewImage(px)
	default:
		if r.err != nil {
			return nil, r.err
		}
		return nil, fmt.Errorf("%w: image kind %d", ErrCorruptStream, kind)
	}
}

// reader is a cursor over the decompressed body. The first short read sets
// err and every later read returns zero values, so callers can check err
// once per command.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) u8() byte {
	if r.err != nil || r.off+1 > len(r.data) {
		r.fail()
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) u32() uint32 {
	if r.err != nil || r.off+4 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) f32() float32 {
	return math.Float32frombits(r.u32())
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil || n < 0 || r.off+n > len(r.data) {
		r.fail()
		return nil
	}
	v := r.data[r.off : r.off+n]
	r.off += n
	return v
}

func (r *reader) fail() {
	if r.err == nil {
		r.err = fmt.Errorf("%w: truncated at offset %d", ErrCorruptStream, r.off)
	}
}
