// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/recomp/ir"
)

// prepareSparse takes ownership of the residency query attached to inst.
// It returns nil when the instruction is not sparse or when the query has
// already been taken.
func (c *Context) prepareSparse(inst *ir.Inst) *ir.Inst {
	sparse := inst.TakeSparse()
	if sparse != nil {
		c.useExtension(extSparseTexture2)
	}
	return sparse
}

// addSparse binds the residency flag of a sparse call to the query result.
// call receives the texel variable as its last argument.
func (c *Context) addSparse(sparse *ir.Inst, format string, args ...any) error {
	return c.addDefined(sparse, VarU1, "%s=sparseTexelsResidentARB("+format+");", args...)
}
