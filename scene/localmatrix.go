package scene

// Filter is a node in an image-filter graph. Filters are queried for the
// bounds they produce given source bounds and the current transform.
type Filter interface {
	// FilterBounds maps source bounds through the filter under the given
	// transform.
	FilterBounds(src Rect, ctm Affine) Rect
}

// LocalMatrixFilter wraps a child filter so the child sees a transform with
// an extra local matrix composed in. Drawing code uses this to record a
// filter once and replay it under a different coordinate system.
type LocalMatrixFilter struct {
	local Affine
	input Filter
}

// NewLocalMatrixFilter wraps input with a local matrix. Returns input
// unchanged for the identity matrix, nil for a nil input, and nil for
// matrices with shear components (only scale-and-translate local matrices
// are supported).
func NewLocalMatrixFilter(local Affine, input Filter) Filter {
	if input == nil {
		return nil
	}
	if local.IsIdentity() {
		return input
	}
	if local.HasShear() {
		return nil
	}
	return &LocalMatrixFilter{local: local, input: input}
}

// Local returns the wrapped local matrix.
func (f *LocalMatrixFilter) Local() Affine { return f.local }

// Input returns the wrapped child filter.
func (f *LocalMatrixFilter) Input() Filter { return f.input }

// FilterBounds composes the local matrix into the transform and delegates to
// the child.
func (f *LocalMatrixFilter) FilterBounds(src Rect, ctm Affine) Rect {
	return f.input.FilterBounds(src, ctm.Multiply(f.local))
}
