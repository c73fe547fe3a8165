// Package ir defines the intermediate representation consumed by the
// texture/image backends.
//
// The IR is a flat, ordered list of instructions. Each instruction has an
// opcode, a fixed number of argument values and, for texture and image
// operations, an immutable TextureInfo descriptor.
//
// # Values
//
// A Value is either empty (an omitted optional operand), an immediate
// constant, or a reference to the instruction that produces it:
//
//	prog := ir.NewProgram()
//	uv := prog.NewInst(ir.OpCompositeConstructF32x2, ir.TextureInfo{}, ir.F32(0.5), ir.F32(0.5))
//	info, _ := ir.NewTextureInfo(ir.Color2D, 0)
//	prog.NewInst(ir.OpImageSampleImplicitLod, info, ir.Value{}, ir.Ref(uv), ir.Value{}, ir.Value{})
//
// # Residency queries
//
// Sparse sampling reports texel residency through a GetSparseFromOp
// pseudo-instruction. The pseudo-instruction is linked to its parent with
// AttachSparse and handed over exactly once with TakeSparse.
package ir
