// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl translates the texture and image instructions of a
// recompiled shader into GLSL source.
//
// Each instruction becomes one statement assigning a fresh variable. The
// variable names follow the result type (f4_0, u4_1, b_0 and so on) and
// are declared at the top of main.
//
// # Basic Usage
//
//	source, info, err := glsl.Compile(program, glsl.Options{
//	    LangVersion: glsl.Version450,
//	    Stage:       ir.StageFragment,
//	    Bindings:    glsl.Bindings{Textures: map[uint32]uint32{0: 3}},
//	})
//
// Translation is all-or-nothing. Operations GLSL cannot express fail with
// an *Error of kind ErrNotImplemented; malformed programs fail with
// ErrLogic.
//
// # Sparse Residency
//
// A sparse texture operation carries a residency query. The query result
// is written by the same ARB_sparse_texture2 call that produces the texel
// and is consumed exactly once.
//
// # Degraded Translations
//
// Some operations are approximated rather than rejected: non-constant
// per-tap gather offsets and explicit-LOD depth comparison on drivers
// without GL_EXT_texture_shadow_lod. Each approximation is logged at warn
// level through the logger set with SetLogger.
package glsl
