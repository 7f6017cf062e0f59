package catalog

import (
	"sync/atomic"

	"github.com/gogpu/ddl"
	"github.com/gogpu/ddl/render"
)

// CallbackContext owns the relationship between one backend texture and the
// promise images minted against it. The catalog creates one per uploaded
// texture (per plane for YUVA entries) and hands the same context to every
// recorder, so all reinflations of a token share the physical texture.
//
// The context starts with one reference held by the catalog. Each promise
// image minted against it adds one. The texture is deleted when the count
// reaches zero, which happens only after every promise image has delivered
// its Done call and the catalog itself has been closed.
//
// A wrapped context adopts a texture it does not own and never deletes it.
type CallbackContext struct {
	backend render.TextureBackend
	texture render.BackendTexture
	owned   bool
	refs    atomic.Int32
}

// NewOwnedContext creates a context that owns its texture and will delete it
// through the backend when the last reference drops.
func NewOwnedContext(backend render.TextureBackend, tex render.BackendTexture) *CallbackContext {
	c := &CallbackContext{backend: backend, texture: tex, owned: true}
	c.refs.Store(1)
	return c
}

// NewWrappedContext adopts a texture owned elsewhere. Dropping the last
// reference clears the handle but never deletes the texture.
func NewWrappedContext(tex render.BackendTexture) *CallbackContext {
	c := &CallbackContext{texture: tex, owned: false}
	c.refs.Store(1)
	return c
}

// Ref adds one reference. The catalog calls this once per plane per minted
// promise image.
func (c *CallbackContext) Ref() {
	c.refs.Add(1)
}

// UseCount returns the current reference count.
func (c *CallbackContext) UseCount() int32 { return c.refs.Load() }

// Texture returns the backend texture handle.
func (c *CallbackContext) Texture() render.BackendTexture { return c.texture }

// IsOwned reports whether the context deletes its texture at zero.
func (c *CallbackContext) IsOwned() bool { return c.owned }

// Fulfill resolves the texture for a draw. It is idempotent and does not
// change the reference count.
func (c *CallbackContext) Fulfill() (render.BackendTexture, bool) {
	return c.texture, c.texture.IsValid()
}

// Release signals the end of a draw pass. The texture stays alive for later
// passes; only Done retires references.
func (c *CallbackContext) Release() {}

// Done drops one reference. At zero an owned context deletes its texture;
// a wrapped context only clears the handle.
func (c *CallbackContext) Done() {
	n := c.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		ddl.Logger().Warn("catalog: context done called more times than referenced",
			"texture", uint64(c.texture.ID), "count", n)
		return
	}
	if c.owned && c.backend != nil && c.texture.IsValid() {
		c.backend.DeleteTexture(c.texture)
	}
	c.texture = render.BackendTexture{}
}

// Ensure CallbackContext implements the promise callbacks contract.
var _ render.PromiseCallbacks = (*CallbackContext)(nil)
