package ddl

import (
	"errors"
	"fmt"
)

// MaxPlanes is the largest number of planes a YUVA decomposition may carry.
const MaxPlanes = 4

// YUVA plane errors.
var (
	ErrInvalidPlaneMapping = errors.New("ddl: invalid YUVA plane mapping")
	ErrPlaneCountMismatch  = errors.New("ddl: plane count does not match mapping")
)

// YUVChannel indexes into a PlaneIndices mapping.
type YUVChannel int

// Channels of a YUVA image.
const (
	ChannelY YUVChannel = iota
	ChannelU
	ChannelV
	ChannelA
)

// PlaneSentinel marks a channel with no backing plane (typically alpha).
const PlaneSentinel int8 = -1

// PlaneIndices maps each of the Y, U, V, A channels to the plane that stores
// it, or PlaneSentinel for channels the image does not carry. Multiple
// channels may share a plane (interleaved formats such as NV12 store U and V
// in one plane).
type PlaneIndices [MaxPlanes]int8

// I420PlaneIndices is the mapping for fully planar Y, U, V with no alpha.
var I420PlaneIndices = PlaneIndices{0, 1, 2, PlaneSentinel}

// NV12PlaneIndices is the mapping for a luma plane plus an interleaved
// chroma plane, no alpha.
var NV12PlaneIndices = PlaneIndices{0, 1, 1, PlaneSentinel}

// PlaneCount returns the number of distinct planes the mapping references.
// For fully planar configurations this equals the number of mapped channels.
func (p PlaneIndices) PlaneCount() int {
	var seen [MaxPlanes]bool
	n := 0
	for _, idx := range p {
		if idx == PlaneSentinel {
			continue
		}
		if idx >= 0 && int(idx) < MaxPlanes && !seen[idx] {
			seen[idx] = true
			n++
		}
	}
	return n
}

// IsValid reports whether the mapping references at least a luma plane, keeps
// every index inside [0, MaxPlanes), and uses plane numbers contiguously
// starting at zero.
func (p PlaneIndices) IsValid() bool {
	if p[ChannelY] == PlaneSentinel {
		return false
	}
	var seen [MaxPlanes]bool
	maxIdx := -1
	for _, idx := range p {
		if idx == PlaneSentinel {
			continue
		}
		if idx < 0 || int(idx) >= MaxPlanes {
			return false
		}
		seen[idx] = true
		if int(idx) > maxIdx {
			maxIdx = int(idx)
		}
	}
	for i := 0; i <= maxIdx; i++ {
		if !seen[i] {
			return false
		}
	}
	return true
}

// YUVColorSpace selects the matrix used to convert YUV samples to RGB.
type YUVColorSpace uint8

// Supported YUV color spaces.
const (
	YUVColorSpaceRec601 YUVColorSpace = iota
	YUVColorSpaceRec709
	YUVColorSpaceRec2020
	YUVColorSpaceIdentity
)

// String returns the name of the YUV color space.
func (s YUVColorSpace) String() string {
	switch s {
	case YUVColorSpaceRec601:
		return "Rec601"
	case YUVColorSpaceRec709:
		return "Rec709"
	case YUVColorSpaceRec2020:
		return "Rec2020"
	case YUVColorSpaceIdentity:
		return "Identity"
	default:
		return "Unknown"
	}
}

// YUVAPlane is one plane of a decomposed image: its own descriptor (chroma
// planes are typically subsampled, so dimensions differ per plane) and raw
// sample bytes.
type YUVAPlane struct {
	Desc     ImageDescriptor
	RowBytes int
	Data     []byte
}

// YUVAPlanes is a complete planar decomposition: the planes in index order,
// the channel-to-plane mapping, and the conversion color space.
type YUVAPlanes struct {
	Planes     []YUVAPlane
	Indices    PlaneIndices
	ColorSpace YUVColorSpace
}

// PlaneCount returns the number of planes in the decomposition.
func (y *YUVAPlanes) PlaneCount() int { return len(y.Planes) }

// Validate checks the mapping and that the plane slice length matches the
// number of distinct planes the mapping references.
func (y *YUVAPlanes) Validate() error {
	if !y.Indices.IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalidPlaneMapping, y.Indices)
	}
	if len(y.Planes) != y.Indices.PlaneCount() {
		return fmt.Errorf("%w: %d planes for mapping %v", ErrPlaneCountMismatch, len(y.Planes), y.Indices)
	}
	for i, pl := range y.Planes {
		if !pl.Desc.IsValid() {
			return fmt.Errorf("%w: plane %d: %s", ErrInvalidDescriptor, i, pl.Desc)
		}
		rb := pl.RowBytes
		if rb == 0 {
			rb = pl.Desc.MinRowBytes()
		}
		need := rb*(pl.Desc.Height-1) + pl.Desc.MinRowBytes()
		if len(pl.Data) < need {
			return fmt.Errorf("%w: plane %d: have %d, need %d", ErrShortPixelData, i, len(pl.Data), need)
		}
	}
	return nil
}

// clone deep-copies the decomposition so captured planes never alias
// caller-owned memory.
func (y *YUVAPlanes) clone() *YUVAPlanes {
	out := &YUVAPlanes{
		Planes:     make([]YUVAPlane, len(y.Planes)),
		Indices:    y.Indices,
		ColorSpace: y.ColorSpace,
	}
	for i, pl := range y.Planes {
		data := make([]byte, len(pl.Data))
		copy(data, pl.Data)
		out.Planes[i] = YUVAPlane{Desc: pl.Desc, RowBytes: pl.RowBytes, Data: data}
	}
	return out
}

// InferPlaneColorTypes derives a color type per plane from the channel
// mapping: a plane referenced by exactly one channel holds single-channel
// samples (Alpha8), a plane shared by several channels holds interleaved
// samples (RGBA8888).
func InferPlaneColorTypes(indices PlaneIndices) [MaxPlanes]ColorType {
	var refs [MaxPlanes]int
	for _, idx := range indices {
		if idx != PlaneSentinel && idx >= 0 && int(idx) < MaxPlanes {
			refs[idx]++
		}
	}
	var out [MaxPlanes]ColorType
	for i, n := range refs {
		switch {
		case n == 1:
			out[i] = ColorTypeAlpha8
		case n > 1:
			out[i] = ColorTypeRGBA8888
		default:
			out[i] = ColorTypeUnknown
		}
	}
	return out
}
