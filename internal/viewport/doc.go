// Package viewport derives the chapter currently being read from the
// positions of chapter anchors relative to the top of the viewport.
//
// A Tracker registers the anchors with an Observer, keeps the set of anchors
// reported as intersecting the region of interest and writes the winning
// chapter into a State. All callbacks are expected on a single goroutine.
package viewport
