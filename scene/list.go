// Package scene provides a recorded display list and its serialized form.
//
// A List captures drawing commands once; Serialize turns it into a compact
// blob whose embedded images can be replaced by caller-defined payloads
// through SerialProcs (the catalog package uses this to substitute 4-byte
// tokens). Deserialize reverses the process, resolving payloads back to
// images through DeserialProcs.
package scene

import "github.com/gogpu/ddl"

// Image is anything the display list can reference as an image. Both source
// images (*ddl.Image) and the render package's promise and raster images
// satisfy it.
type Image interface {
	Descriptor() ddl.ImageDescriptor
}

// Op identifies a display-list command.
type Op uint8

// Display-list commands.
const (
	OpFillRect Op = iota + 1
	OpDrawImage
)

// Command is one recorded drawing operation. Which fields are meaningful
// depends on Op: FillRect uses Rect and Color, DrawImage uses Image and
// Transform.
type Command struct {
	Op        Op
	Rect      Rect
	Color     Color
	Image     Image
	Transform Affine
}

// List is a recorded display list: a fixed drawing surface size and an
// ordered command sequence. Lists are append-only during recording and
// read-only afterwards; a deserialized List is never mutated.
type List struct {
	width  int
	height int
	cmds   []Command
}

// NewList creates an empty display list for a surface of the given size.
func NewList(width, height int) *List {
	return &List{width: width, height: height}
}

// Width returns the surface width in pixels.
func (l *List) Width() int { return l.width }

// Height returns the surface height in pixels.
func (l *List) Height() int { return l.height }

// FillRect records a solid rectangle fill.
func (l *List) FillRect(r Rect, c Color) {
	l.cmds = append(l.cmds, Command{Op: OpFillRect, Rect: r, Color: c})
}

// DrawImage records an image draw under the given transform.
func (l *List) DrawImage(img Image, t Affine) {
	l.cmds = append(l.cmds, Command{Op: OpDrawImage, Image: img, Transform: t})
}

// Commands returns the recorded command sequence. The slice is owned by the
// list and must be treated as read-only.
func (l *List) Commands() []Command { return l.cmds }

// Images returns every image referenced by the list, in command order, with
// duplicates preserved.
func (l *List) Images() []Image {
	var out []Image
	for _, c := range l.cmds {
		if c.Op == OpDrawImage && c.Image != nil {
			out = append(out, c.Image)
		}
	}
	return out
}
