package catalog

import (
	"encoding/binary"

	"github.com/gogpu/ddl"
	"github.com/gogpu/ddl/scene"
)

// TokenSize is the fixed width of a catalog token in the serialized stream.
const TokenSize = 4

// DeflateEncoder substitutes catalog tokens for embedded images during
// serialization. One encoder serves one Serialize call; the catalog it
// registers into outlives it.
type DeflateEncoder struct {
	catalog *Catalog
}

// NewDeflateEncoder creates an encoder that registers into cat.
func NewDeflateEncoder(cat *Catalog) *DeflateEncoder {
	return &DeflateEncoder{catalog: cat}
}

// Procs returns the serialization hooks. The image hook registers each
// embedded source image and emits its index as a little-endian 4-byte token.
// Images that are not catalog sources or that fail registration are declined,
// so the serializer embeds their raw pixels.
func (e *DeflateEncoder) Procs() scene.SerialProcs {
	return scene.SerialProcs{
		ImageProc: func(img scene.Image) ([]byte, bool) {
			src, ok := img.(*ddl.Image)
			if !ok {
				return nil, false
			}
			idx, err := e.catalog.RegisterOrFind(src)
			if err != nil {
				ddl.Logger().Warn("catalog: registration failed, embedding raw pixels",
					"id", src.UniqueID(), "err", err)
				return nil, false
			}
			var tok [TokenSize]byte
			binary.LittleEndian.PutUint32(tok[:], idx)
			return tok[:], true
		},
	}
}
