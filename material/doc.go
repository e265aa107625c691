// Package material models the material side of the render queue:
// passes (one GPU state-binding step each), techniques (ordered pass
// lists), materials (ranked technique lists with scheme resolution),
// and the process-wide pending pass-update set flushed once per frame.
//
// Shader source and compilation are out of scope; a pass carries opaque
// program names that the render system resolves. Pass identity is
// pointer identity, which is what the queue's batching keys on.
package material
