// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/recomp/ir"
)

// EmitBindless reports that op cannot be translated. GLSL has no way to
// address a texture through a runtime handle or a runtime index into a
// bound array, so every bindless and bound image operation fails.
func EmitBindless(op ir.Opcode) error {
	switch op.Addressing() {
	case ir.AddressingBindless, ir.AddressingBound:
		return notImplemented("Emit%s", op)
	default:
		return logicError("%s is not an indirectly addressed image operation", op)
	}
}
