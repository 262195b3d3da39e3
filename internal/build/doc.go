// Package build turns docset content into artifacts and diagnostics.
//
// The Dispatcher rebuilds single files on demand, which is what an editor
// integration calls on every keystroke-level change. A Session wires the
// dispatcher to the configured collaborators and builds whole docsets (or
// explicit file subsets) on a bounded worker pool.
//
// Every build step reports problems as diagnostics attributed to the file
// being built. A failing or panicking step never affects other files.
package build
