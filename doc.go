// Package ddl provides the image data model for deferred display-list
// recording: immutable pixel buffers, image descriptors, YUVA plane
// decompositions, and source images with process-unique identity.
//
// A display list recorded through scene.List can be serialized with its
// embedded images replaced by compact catalog tokens (see the catalog
// package). The catalog deduplicates images by their unique ID, uploads each
// one to the GPU exactly once, and lets any number of concurrent recorders
// reconstruct the list with promise images that share those textures.
//
// The root package is deliberately free of GPU types; backends live under
// backend/ and the capability interfaces they implement live in render/.
package ddl
