// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/recomp/ir"
)

// needsShadowLodExt reports whether explicit-LOD depth comparison on t
// requires GL_EXT_texture_shadow_lod. The extended forms also pack the
// reference into a wider coordinate vector.
func needsShadowLodExt(t ir.TextureType) bool {
	switch t {
	case ir.ColorArray2D, ir.ColorCube, ir.ColorArrayCube:
		return true
	default:
		return false
	}
}

// shadowCoordCast returns the constructor packing coordinates and the
// depth reference together.
func shadowCoordCast(t ir.TextureType) string {
	if needsShadowLodExt(t) {
		return "vec4"
	}
	return "vec3"
}

// useShadowGradFallback decides whether a depth-compare sample must be
// emulated with textureGrad. explicitLod is true for explicit-LOD samples,
// which need the extension in every stage; implicit-LOD samples only need
// it outside the fragment stage.
func (c *Context) useShadowGradFallback(t ir.TextureType, explicitLod bool) bool {
	if !needsShadowLodExt(t) {
		return false
	}
	if !explicitLod && c.isFragment() {
		return false
	}
	if c.profile.SupportTextureShadowLod {
		c.useExtension(extTextureShadowLod)
		return false
	}
	return true
}

// emitShadowGradFallback emulates an explicit-LOD depth comparison with
// zero derivatives, which samples the base level. Cube arrays have no
// textureGrad overload and yield a constant zero.
func (c *Context) emitShadowGradFallback(inst *ir.Inst, info ir.TextureInfo, texture, coords, dref string) error {
	c.log.Warn("glsl: device lacks "+extTextureShadowLod+", using textureGrad fallback",
		"inst", inst.Index(), "type", info.Type().String())
	if info.Type() == ir.ColorArrayCube {
		c.log.Warn("glsl: textureGrad does not support ColorArrayCube, stubbing",
			"inst", inst.Index())
		return c.addDefined(inst, VarF32, "%s=0.0f;")
	}
	dCast := "vec3"
	if info.Type() == ir.ColorArray2D {
		dCast = "vec2"
	}
	return c.addDefined(inst, VarF32, "%s=textureGrad(%s,%s(%s,%s),%s(0),%s(0));",
		texture, shadowCoordCast(info.Type()), coords, dref, dCast, dCast)
}
