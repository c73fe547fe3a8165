// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/recomp/ir"
)

// samplerUse tells how an operation reads a texture.
type samplerUse uint8

const (
	useColor samplerUse = iota
	useShadow
	// useQuery reads only size or LOD information, which both the plain
	// and the shadow sampler variants provide.
	useQuery
)

// texture resolves the sampler bound for info. Texture buffers live in
// their own table.
func (c *Context) texture(info ir.TextureInfo, use samplerUse) (string, error) {
	table, kind := c.bindings.Textures, "texture"
	if info.Type() == ir.Buffer {
		table, kind = c.bindings.TextureBuffers, "texture buffer"
	}
	binding, ok := table[info.Descriptor()]
	if !ok {
		return "", NewError(ErrMissingBinding, fmt.Sprintf("%s descriptor %d has no binding", kind, info.Descriptor()))
	}
	name := fmt.Sprintf("tex%d", binding)
	c.recordUse(c.textures, name, binding, info.Type(), use)
	return name, nil
}

// image resolves the storage image bound for info.
func (c *Context) image(info ir.TextureInfo) (string, error) {
	table, kind := c.bindings.Images, "image"
	if info.Type() == ir.Buffer {
		table, kind = c.bindings.ImageBuffers, "image buffer"
	}
	binding, ok := table[info.Descriptor()]
	if !ok {
		return "", NewError(ErrMissingBinding, fmt.Sprintf("%s descriptor %d has no binding", kind, info.Descriptor()))
	}
	name := fmt.Sprintf("img%d", binding)
	c.recordUse(c.images, name, binding, info.Type(), useColor)
	return name, nil
}

func (c *Context) recordUse(uses map[string]*resourceUse, name string, binding uint32, typ ir.TextureType, how samplerUse) {
	use, ok := uses[name]
	if !ok {
		use = &resourceUse{name: name, binding: binding, typ: typ}
		uses[name] = use
	}
	if use.typ != typ {
		use.mixedTypes = true
	}
	switch how {
	case useShadow:
		use.shadow = true
	case useColor:
		use.color = true
	}
}
