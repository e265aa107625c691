// Package queue implements the render queue: the per-frame structure
// that partitions renderables into priority-ordered groups, groups
// solids by pass identity to minimize GPU state changes, and depth-sorts
// transparents back-to-front for correct blending.
//
// A queue lives through this fixed cycle once per frame per camera:
// fill (Add), sort (Sort, after fill completes so every transparent has
// a stable camera distance), drain (visitors or render.BuildSubmission),
// clear (Clear, which first flushes process-wide pending pass updates
// through the FrameContext). No concurrent mutation during drain.
package queue
