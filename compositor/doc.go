// Package compositor implements post-processing effects as graphs of
// render-to-texture passes.
//
// A Compositor owns candidate Techniques, ranked best first. Each
// Technique declares named intermediate textures and an ordered list of
// target passes; each target pass binds one render target and executes
// clear, stencil, render-scene or render-quad operations in order.
// Support checking runs entirely against rend.Capabilities, so whether
// a technique is usable on a device is decided before any frame work:
// capability mismatches mark the technique unsupported and the chain
// skips it, while authoring mistakes (a quad sampling a texture nothing
// produced) are reported as configuration errors.
//
// A Chain attaches compositors to one viewport. Compile selects each
// compositor's first supported technique and allocates intermediate
// textures through a TexturePool; Evaluate walks the chain once per
// frame, re-invoking the scene render pipeline for render-scene passes
// and issuing full-screen quads for effect passes.
package compositor
