package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/ddl/render"
	"github.com/gogpu/ddl/scene"
)

// ErrBadToken is returned when a payload in the stream is not a catalog
// token.
var ErrBadToken = errors.New("catalog: malformed token payload")

// InflateDecoder resolves catalog tokens during deserialization for one
// recorder. Each concurrent reinflation owns its own decoder; decoders are
// not safe for concurrent use, while the catalog they resolve through is.
type InflateDecoder struct {
	catalog  *Catalog
	recorder render.Recorder
	images   []render.Image
}

// NewInflateDecoder creates a decoder resolving through cat with rec.
func NewInflateDecoder(cat *Catalog, rec render.Recorder) *InflateDecoder {
	return &InflateDecoder{catalog: cat, recorder: rec}
}

// Procs returns the deserialization hooks. The image hook validates the
// token width, decodes the index, and delegates to the catalog, recording
// every image it produces.
func (d *InflateDecoder) Procs() scene.DeserialProcs {
	return scene.DeserialProcs{
		ImageProc: func(payload []byte) (scene.Image, error) {
			if len(payload) != TokenSize {
				return nil, fmt.Errorf("%w: %d bytes", ErrBadToken, len(payload))
			}
			img, err := d.catalog.ResolveImage(binary.LittleEndian.Uint32(payload), d.recorder)
			if err != nil {
				return nil, err
			}
			d.images = append(d.images, img)
			return img, nil
		},
	}
}

// Images returns every image the decoder has produced, in resolution order.
func (d *InflateDecoder) Images() []render.Image { return d.images }
