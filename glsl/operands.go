// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/recomp/ir"
)

// ptpStub replaces per-tap gather offsets that are not compile-time
// constants.
const ptpStub = "ivec2[](ivec2(0), ivec2(1), ivec2(2), ivec2(3))"

// castToIntVec converts a sampling coordinate or offset to the integer
// vector width of the texture type.
func castToIntVec(value string, t ir.TextureType) (string, error) {
	switch t {
	case ir.Color1D, ir.Buffer:
		return fmt.Sprintf("int(%s)", value), nil
	case ir.ColorArray1D, ir.Color2D, ir.ColorArray2D:
		return fmt.Sprintf("ivec2(%s)", value), nil
	case ir.Color3D, ir.ColorCube:
		return fmt.Sprintf("ivec3(%s)", value), nil
	case ir.ColorArrayCube:
		return fmt.Sprintf("ivec4(%s)", value), nil
	default:
		return "", notImplemented("offset type %d", uint8(t))
	}
}

// texelFetchCastToInt converts a texel address to the integer vector
// width of the texture type. Unlike castToIntVec the array layer of a 2D
// array is part of the address.
func texelFetchCastToInt(value string, t ir.TextureType) (string, error) {
	switch t {
	case ir.Color1D, ir.Buffer:
		return fmt.Sprintf("int(%s)", value), nil
	case ir.ColorArray1D, ir.Color2D:
		return fmt.Sprintf("ivec2(%s)", value), nil
	case ir.ColorArray2D, ir.Color3D, ir.ColorCube:
		return fmt.Sprintf("ivec3(%s)", value), nil
	case ir.ColorArrayCube:
		return fmt.Sprintf("ivec4(%s)", value), nil
	default:
		return "", notImplemented("offset type %d", uint8(t))
	}
}

// offsetVec renders a texel offset. Constant offsets are folded into
// literals; anything else goes through the producing instruction's
// variable.
func (c *Context) offsetVec(offset ir.Value) (string, error) {
	if offset.IsImmediate() {
		return fmt.Sprintf("int(%d)", signed(offset)), nil
	}
	inst := offset.Inst()
	if inst != nil && inst.AreAllArgsImmediates() {
		switch inst.Op() {
		case ir.OpCompositeConstructU32x2:
			return fmt.Sprintf("ivec2(%d,%d)", signed(inst.Arg(0)), signed(inst.Arg(1))), nil
		case ir.OpCompositeConstructU32x3:
			return fmt.Sprintf("ivec3(%d,%d,%d)", signed(inst.Arg(0)), signed(inst.Arg(1)),
				signed(inst.Arg(2))), nil
		case ir.OpCompositeConstructU32x4:
			return fmt.Sprintf("ivec4(%d,%d,%d,%d)", signed(inst.Arg(0)), signed(inst.Arg(1)),
				signed(inst.Arg(2)), signed(inst.Arg(3))), nil
		}
	}
	return c.Consume(offset)
}

// ptpOffsets renders the four per-tap offsets of a gather. offset holds
// the x components and offset2 the y components.
func (c *Context) ptpOffsets(offset, offset2 ir.Value) (string, error) {
	a, b := offset.Inst(), offset2.Inst()
	if a == nil || b == nil || !a.AreAllArgsImmediates() || !b.AreAllArgsImmediates() {
		c.log.Warn("glsl: not all PTP gather offsets are immediate, stubbing",
			"offset", offset.String(), "offset2", offset2.String())
		return ptpStub, nil
	}
	if a.Op() != b.Op() || a.Op() != ir.OpCompositeConstructU32x4 {
		return "", logicError("invalid PTP arguments %s and %s", a.Op(), b.Op())
	}
	return fmt.Sprintf("ivec2[](ivec2(%d,%d),ivec2(%d,%d),ivec2(%d,%d),ivec2(%d,%d))",
		signed(a.Arg(0)), signed(b.Arg(0)),
		signed(a.Arg(1)), signed(b.Arg(1)),
		signed(a.Arg(2)), signed(b.Arg(2)),
		signed(a.Arg(3)), signed(b.Arg(3))), nil
}

// signed reinterprets an immediate offset component. Offsets are stored as
// raw 32-bit words but may be negative.
func signed(v ir.Value) int32 {
	return int32(v.U32()) //nolint:gosec // G115: two's complement reinterpretation
}
