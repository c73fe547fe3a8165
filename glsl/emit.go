// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"

	"github.com/gogpu/recomp/ir"
)

// compositeInfo describes how a composite construction is lowered.
var compositeInfo = map[ir.Opcode]struct {
	typ  VarType
	ctor string
}{
	ir.OpCompositeConstructU32x2: {VarU32x2, "uvec2"},
	ir.OpCompositeConstructU32x3: {VarU32x3, "uvec3"},
	ir.OpCompositeConstructU32x4: {VarU32x4, "uvec4"},
	ir.OpCompositeConstructF32x2: {VarF32x2, "vec2"},
	ir.OpCompositeConstructF32x3: {VarF32x3, "vec3"},
	ir.OpCompositeConstructF32x4: {VarF32x4, "vec4"},
}

// EmitInst translates one instruction. Instructions must be visited in
// program order so that every operand is defined before it is consumed.
func (c *Context) EmitInst(inst *ir.Inst) error {
	op := inst.Op()
	if op.Addressing() == ir.AddressingBindless || op.Addressing() == ir.AddressingBound {
		return EmitBindless(op)
	}

	switch op {
	case ir.OpCompositeConstructU32x2, ir.OpCompositeConstructU32x3, ir.OpCompositeConstructU32x4,
		ir.OpCompositeConstructF32x2, ir.OpCompositeConstructF32x3, ir.OpCompositeConstructF32x4:
		return c.emitCompositeConstruct(inst)
	case ir.OpGetSparseFromOp:
		// Bound by the parent's sparse call.
		if _, ok := c.Definition(inst); !ok {
			return logicError("residency query %%%d was not consumed by its parent", inst.Index())
		}
		return nil
	}

	operands, err := c.operands(inst)
	if err != nil {
		return err
	}
	switch op {
	case ir.OpImageSampleImplicitLod:
		return c.EmitImageSampleImplicitLod(inst, operands[1], operands[2], inst.Arg(3))
	case ir.OpImageSampleExplicitLod:
		return c.EmitImageSampleExplicitLod(inst, operands[1], operands[2], inst.Arg(3))
	case ir.OpImageSampleDrefImplicitLod:
		return c.EmitImageSampleDrefImplicitLod(inst, operands[1], operands[2], operands[3], inst.Arg(4))
	case ir.OpImageSampleDrefExplicitLod:
		return c.EmitImageSampleDrefExplicitLod(inst, operands[1], operands[2], operands[3], inst.Arg(4))
	case ir.OpImageGather:
		return c.EmitImageGather(inst, operands[1], inst.Arg(2), inst.Arg(3))
	case ir.OpImageGatherDref:
		return c.EmitImageGatherDref(inst, operands[1], inst.Arg(2), inst.Arg(3), operands[4])
	case ir.OpImageFetch:
		return c.EmitImageFetch(inst, operands[1], operands[2], operands[3], operands[4])
	case ir.OpImageQueryDimensions:
		return c.EmitImageQueryDimensions(inst, operands[1])
	case ir.OpImageQueryLod:
		return c.EmitImageQueryLod(inst, operands[1])
	case ir.OpImageGradient:
		return c.EmitImageGradient(inst, operands[1], inst.Arg(2), inst.Arg(3), inst.Arg(4))
	case ir.OpImageRead:
		return c.EmitImageRead(inst, operands[1])
	case ir.OpImageWrite:
		return c.EmitImageWrite(inst, operands[1], operands[2])
	default:
		return logicError("unhandled opcode %s", op)
	}
}

// operands renders the arguments of an image instruction. Empty optional
// arguments and the resource index render as "".
func (c *Context) operands(inst *ir.Inst) ([]string, error) {
	op := inst.Op()
	out := make([]string, op.NumArgs())
	for i := range out {
		arg := inst.Arg(i)
		if arg.IsEmpty() {
			if !op.IsOptionalArg(i) {
				return nil, logicError("%s argument %d is required", op, i)
			}
			continue
		}
		if i == 0 && op.IsImage() {
			continue
		}
		s, err := c.Consume(arg)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (c *Context) emitCompositeConstruct(inst *ir.Inst) error {
	ci := compositeInfo[inst.Op()]
	parts := make([]string, 0, inst.NumArgs())
	for _, arg := range inst.Args() {
		s, err := c.Consume(arg)
		if err != nil {
			return err
		}
		parts = append(parts, s)
	}
	return c.addDefined(inst, ci.typ, "%s=%s(%s);", ci.ctor, strings.Join(parts, ","))
}
