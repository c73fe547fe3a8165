// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/gogpu/recomp/ir"
)

// GLSL extensions the emitters may depend on.
const (
	extSparseTexture2     = "GL_ARB_sparse_texture2"
	extTextureShadowLod   = "GL_EXT_texture_shadow_lod"
	extImageLoadFormatted = "GL_EXT_shader_image_load_formatted"
)

// Context is the emission state of one shader translation unit. A Context
// must not be shared between translations or used from several goroutines.
type Context struct {
	stage    ir.Stage
	profile  Profile
	bindings Bindings
	version  Version
	log      *slog.Logger

	vars       *VarAlloc
	body       []string
	extensions []string

	// Resources referenced by the emitted statements, keyed by name.
	textures map[string]*resourceUse
	images   map[string]*resourceUse
}

// resourceUse records how a bound resource was used, for its declaration.
type resourceUse struct {
	name    string
	binding uint32
	typ     ir.TextureType
	shadow  bool // used by a depth-compare operation
	color   bool // sampled without depth comparison

	mixedTypes bool
}

// NewContext creates the emission state for one translation unit.
func NewContext(options Options) *Context {
	if options.LangVersion.Major == 0 {
		options.LangVersion = Version450
	}
	log := options.Logger
	if log == nil {
		log = slogger()
	}
	return &Context{
		stage:    options.Stage,
		profile:  options.Profile,
		bindings: options.Bindings,
		version:  options.LangVersion,
		log:      log,
		vars:     newVarAlloc(),
		body:     make([]string, 0, 64),
		textures: make(map[string]*resourceUse),
		images:   make(map[string]*resourceUse),
	}
}

// Stage returns the shader stage being translated.
func (c *Context) Stage() ir.Stage {
	return c.stage
}

// Vars returns the variable allocator of the context.
func (c *Context) Vars() *VarAlloc {
	return c.vars
}

// Body returns the emitted statements in program order.
func (c *Context) Body() []string {
	return c.body
}

// Extensions returns the extensions used so far, in order of first use.
func (c *Context) Extensions() []string {
	return c.extensions
}

// Definition returns the result binding recorded for inst.
func (c *Context) Definition(inst *ir.Inst) (string, bool) {
	return c.vars.Definition(inst)
}

// Consume renders a value produced earlier in the program.
func (c *Context) Consume(v ir.Value) (string, error) {
	return c.vars.Consume(v)
}

// add appends a statement to the program body.
func (c *Context) add(format string, args ...any) {
	c.body = append(c.body, fmt.Sprintf(format, args...))
}

// addDefined defines the result of inst with type t and appends the
// statement format, whose first verb receives the result name.
func (c *Context) addDefined(inst *ir.Inst, t VarType, format string, args ...any) error {
	name, err := c.vars.Define(inst, t)
	if err != nil {
		return err
	}
	c.add(format, append([]any{name}, args...)...)
	return nil
}

func (c *Context) useExtension(name string) {
	if !lo.Contains(c.extensions, name) {
		c.extensions = append(c.extensions, name)
	}
}

func (c *Context) isFragment() bool {
	return c.stage == ir.StageFragment
}
