// Package render is the boundary between the queue core and a render
// system backend: render targets, GPU texture interfaces, the device
// handle received from the host, and the flattened draw stream
// (Submission) that backends consume.
//
// The RenderSystem interface is intentionally narrow: bind a target,
// clear, execute pass-bound batches in order, draw full-screen quads.
// Everything the queue and compositor decide (grouping, ordering,
// technique selection) is already encoded in the stream by the time a
// backend sees it.
package render
