// Package rend is the render-queue and composition core of the gogpu
// 3D stack: it collects visible renderables each frame, groups and sorts
// them for minimal-state GPU submission, and evaluates multi-pass
// render-to-texture composition chains.
//
// The root package holds the shared vocabulary: renderable and camera
// interfaces, ordered queue group IDs, pixel formats, device capability
// descriptions, the object arena (World) and the per-frame FrameContext.
// Higher-level behavior lives in the subpackages:
//
//   - material: materials, techniques, passes, scheme resolution
//   - queue: the render queue and its grouping/sorting machinery
//   - compositor: compositor techniques, target passes, chains
//   - render: the boundary to the render system (targets, textures, draw streams)
//   - backend: render-system registry plus the soft and wgpu backends
//
// rend does not create GPU devices and does not load resources. Backends
// RECEIVE a device from the host application (see render.DeviceHandle);
// scene graphs push visible objects into the queue through Collector
// and the queue's add operations.
package rend
