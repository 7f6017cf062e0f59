// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the narrow GPU capability interfaces the catalog
// needs: a TextureBackend that creates and deletes backend textures, and a
// Recorder that mints promise images against textures fulfilled later.
//
// The package deliberately exposes small interfaces instead of a full device
// abstraction. Backends under backend/ implement TextureBackend over real
// GPU stacks; SoftwareBackend and PromiseRecorder provide complete in-memory
// implementations for CPU-only use and for tests.
package render
