// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"

	"github.com/gogpu/recomp/ir"
)

// testBindings binds descriptor N of every table to a distinct slot.
func testBindings() Bindings {
	return Bindings{
		Textures:       map[uint32]uint32{0: 0, 1: 1, 2: 2, 3: 3},
		TextureBuffers: map[uint32]uint32{0: 8},
		Images:         map[uint32]uint32{0: 0, 1: 1},
		ImageBuffers:   map[uint32]uint32{0: 4},
	}
}

func testOptions(stage ir.Stage) Options {
	opts := DefaultOptions()
	opts.Stage = stage
	opts.Bindings = testBindings()
	return opts
}

func newTestContext(stage ir.Stage) *Context {
	return NewContext(testOptions(stage))
}

// imageInst appends an image instruction with all operands empty.
func imageInst(p *ir.Program, op ir.Opcode, info ir.TextureInfo) *ir.Inst {
	return p.NewInst(op, info, make([]ir.Value, op.NumArgs())...)
}

// attachSparse gives inst a residency query and returns it.
func attachSparse(t *testing.T, p *ir.Program, inst *ir.Inst) *ir.Inst {
	t.Helper()
	pseudo := p.NewInst(ir.OpGetSparseFromOp, ir.TextureInfo{}, ir.Ref(inst))
	if err := inst.AttachSparse(pseudo); err != nil {
		t.Fatalf("AttachSparse() error = %v", err)
	}
	return pseudo
}

// u32x2 appends a constant two-component offset.
func u32x2(p *ir.Program, x, y int32) *ir.Inst {
	return p.NewInst(ir.OpCompositeConstructU32x2, ir.TextureInfo{},
		ir.U32(uint32(x)), ir.U32(uint32(y))) //nolint:gosec // two's complement
}

func u32x4(p *ir.Program, a, b, c, d uint32) *ir.Inst {
	return p.NewInst(ir.OpCompositeConstructU32x4, ir.TextureInfo{},
		ir.U32(a), ir.U32(b), ir.U32(c), ir.U32(d))
}

// body returns the single statement emitted by ctx.
func body(t *testing.T, ctx *Context) string {
	t.Helper()
	if len(ctx.Body()) != 1 {
		t.Fatalf("expected 1 statement, got %d: %q", len(ctx.Body()), ctx.Body())
	}
	return ctx.Body()[0]
}

// mustContain asserts that the source contains the given substring.
func mustContain(t *testing.T, source, expected string) {
	t.Helper()
	if !strings.Contains(source, expected) {
		t.Errorf("Expected source to contain %q, but it was not found.\nSource:\n%s", expected, source)
	}
}

// mustNotContain asserts that the source does NOT contain the given substring.
func mustNotContain(t *testing.T, source, forbidden string) {
	t.Helper()
	if strings.Contains(source, forbidden) {
		t.Errorf("Source should NOT contain %q, but it was found.\nSource:\n%s", forbidden, source)
	}
}

// mustFailWith asserts that err is an emission error of the given kind.
func mustFailWith(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := kindOf(err); got != kind {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}
