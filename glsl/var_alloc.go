// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/recomp/ir"
)

// VarAlloc hands out result bindings. Names are unique within one
// allocator and allocated in program order.
type VarAlloc struct {
	counts [varTypeCount]uint32
	defs   map[*ir.Inst]string
	order  []varDecl
}

type varDecl struct {
	name string
	typ  VarType
}

func newVarAlloc() *VarAlloc {
	return &VarAlloc{
		defs:  make(map[*ir.Inst]string),
		order: make([]varDecl, 0, 32),
	}
}

// Define allocates a fresh variable of type t holding the result of inst.
// Defining the same instruction twice is a logic error.
func (a *VarAlloc) Define(inst *ir.Inst, t VarType) (string, error) {
	if t >= varTypeCount {
		return "", logicError("invalid variable type %d", uint8(t))
	}
	if name, ok := a.defs[inst]; ok {
		return "", logicError("%%%d already defined as %s", inst.Index(), name)
	}
	name := fmt.Sprintf("%s_%d", varTypeInfo[t].prefix, a.counts[t])
	a.counts[t]++
	a.defs[inst] = name
	a.order = append(a.order, varDecl{name: name, typ: t})
	return name, nil
}

// Definition returns the variable holding the result of inst.
func (a *VarAlloc) Definition(inst *ir.Inst) (string, bool) {
	name, ok := a.defs[inst]
	return name, ok
}

// Consume renders a value as a GLSL expression: immediates become
// literals, instruction results become their variable.
func (a *VarAlloc) Consume(v ir.Value) (string, error) {
	switch v.Type() {
	case ir.TypeU32:
		return fmt.Sprintf("%du", v.U32()), nil
	case ir.TypeF32:
		return formatFloat(v.F32()), nil
	case ir.TypeOpaque:
		name, ok := a.defs[v.Inst()]
		if !ok {
			return "", logicError("%%%d (%s) used before definition", v.Inst().Index(), v.Inst().Op())
		}
		return name, nil
	default:
		return "", logicError("consuming an empty value")
	}
}

// Declarations returns one declaration per allocated variable, in
// allocation order.
func (a *VarAlloc) Declarations() []string {
	decls := make([]string, 0, len(a.order))
	for _, d := range a.order {
		decls = append(decls, fmt.Sprintf("%s %s;", d.typ, d.name))
	}
	return decls
}

// formatFloat formats a float32 for GLSL output.
func formatFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	// Ensure it has a decimal point or exponent
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
