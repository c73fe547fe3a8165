// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/gogpu/recomp/ir"
)

// Writer assembles the emitted statements into a GLSL program.
type Writer struct {
	ctx *Context

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Declared resources, in binding order
	textureNames []string
	imageNames   []string
}

// newWriter creates a new GLSL writer.
func newWriter(ctx *Context) *Writer {
	return &Writer{ctx: ctx}
}

// String returns the generated GLSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeProgram generates the complete shader.
func (w *Writer) writeProgram() error {
	// 1. Version and extensions
	w.writeVersionDirective()
	w.writeExtensions()

	// 2. Precision qualifiers (ES only)
	samplers, err := w.samplerDecls()
	if err != nil {
		return err
	}
	images, err := w.imageDecls()
	if err != nil {
		return err
	}
	w.writePrecisionQualifiers(samplers, images)

	// 3. Resources
	for _, d := range samplers {
		w.writeLine("layout(binding=%d) uniform %s %s;", d.binding, d.glsl, d.name)
		w.textureNames = append(w.textureNames, d.name)
	}
	for _, d := range images {
		w.writeLine("layout(binding=%d) uniform %s %s;", d.binding, d.glsl, d.name)
		w.imageNames = append(w.imageNames, d.name)
	}
	if len(samplers)+len(images) > 0 {
		w.writeLine("")
	}

	// 4. Entry point
	w.writeLine("void main() {")
	w.pushIndent()
	for _, decl := range w.ctx.vars.Declarations() {
		w.writeLine("%s", decl)
	}
	for _, stmt := range w.ctx.Body() {
		w.writeLine("%s", stmt)
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

// writeVersionDirective writes the #version directive.
func (w *Writer) writeVersionDirective() {
	w.writeLine("#version %s", w.ctx.version)
}

// writeExtensions enables the extensions used by the body.
func (w *Writer) writeExtensions() {
	for _, ext := range w.ctx.Extensions() {
		w.writeLine("#extension %s : enable", ext)
	}
	w.writeLine("")
}

// writePrecisionQualifiers writes default precisions for every opaque type
// in use. ES requires them for everything but a few sampler types.
func (w *Writer) writePrecisionQualifiers(samplers, images []resourceDecl) {
	if !w.ctx.version.ES {
		return
	}
	w.writeLine("precision highp float;")
	w.writeLine("precision highp int;")
	types := lo.Uniq(lo.Map(append(slices.Clone(samplers), images...), func(d resourceDecl, _ int) string {
		return d.glsl
	}))
	slices.Sort(types)
	for _, t := range types {
		w.writeLine("precision highp %s;", t)
	}
	w.writeLine("")
}

type resourceDecl struct {
	name    string
	binding uint32
	glsl    string
}

// samplerDecls derives one sampler declaration per referenced texture.
func (w *Writer) samplerDecls() ([]resourceDecl, error) {
	uses := sortedUses(w.ctx.textures)
	decls := make([]resourceDecl, 0, len(uses))
	for _, use := range uses {
		if use.mixedTypes {
			return nil, logicError("texture %s used with several types", use.name)
		}
		if use.shadow && use.color {
			return nil, notImplemented("texture %s used with and without depth comparison", use.name)
		}
		if err := w.checkProfileType("texture", use); err != nil {
			return nil, err
		}
		glsl, err := samplerToGLSL(use.typ, use.shadow)
		if err != nil {
			return nil, fmt.Errorf("texture %s: %w", use.name, err)
		}
		decls = append(decls, resourceDecl{name: use.name, binding: use.binding, glsl: glsl})
	}
	return decls, nil
}

// imageDecls derives one storage image declaration per referenced image.
func (w *Writer) imageDecls() ([]resourceDecl, error) {
	uses := sortedUses(w.ctx.images)
	decls := make([]resourceDecl, 0, len(uses))
	for _, use := range uses {
		if use.mixedTypes {
			return nil, logicError("image %s used with several types", use.name)
		}
		if err := w.checkProfileType("image", use); err != nil {
			return nil, err
		}
		glsl, err := imageToGLSL(use.typ)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", use.name, err)
		}
		decls = append(decls, resourceDecl{name: use.name, binding: use.binding, glsl: glsl})
	}
	return decls, nil
}

// checkProfileType rejects resource types the target profile lacks.
// GLSL ES has no 1D samplers or images.
func (w *Writer) checkProfileType(kind string, use *resourceUse) error {
	if w.ctx.version.ES && (use.typ == ir.Color1D || use.typ == ir.ColorArray1D) {
		return notImplemented("%s %s: %s is not available in GLSL ES", kind, use.name, use.typ)
	}
	return nil
}

func sortedUses(uses map[string]*resourceUse) []*resourceUse {
	out := lo.Values(uses)
	slices.SortFunc(out, func(a, b *resourceUse) int {
		return cmp.Compare(a.binding, b.binding)
	})
	return out
}

// writeLine writes an indented line followed by a newline.
func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
