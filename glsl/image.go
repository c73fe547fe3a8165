// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/recomp/ir"
)

// textureInfoOf returns the descriptor of an image instruction.
func textureInfoOf(inst *ir.Inst) (ir.TextureInfo, error) {
	info, ok := inst.TextureInfo()
	if !ok {
		return ir.TextureInfo{}, logicError("%s without texture info", inst.Op())
	}
	return info, nil
}

// EmitImageSampleImplicitLod samples with derivatives-based LOD. Outside
// the fragment stage there are no implicit derivatives, so level zero is
// sampled and the bias is dropped.
func (c *Context) EmitImageSampleImplicitLod(inst *ir.Inst, coords, biasLC string, offset ir.Value) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	if info.HasLodClamp() {
		return notImplemented("EmitImageSampleImplicitLod Lod clamp samples")
	}
	texture, err := c.texture(info, useColor)
	if err != nil {
		return err
	}
	bias := ""
	if info.HasBias() {
		bias = "," + biasLC
	}
	texel, err := c.vars.Define(inst, VarF32x4)
	if err != nil {
		return err
	}
	sparse := c.prepareSparse(inst)
	if sparse == nil {
		if !offset.IsEmpty() {
			offsetStr, err := c.offsetVec(offset)
			if err != nil {
				return err
			}
			if c.isFragment() {
				c.add("%s=textureOffset(%s,%s,%s%s);", texel, texture, coords, offsetStr, bias)
			} else {
				c.add("%s=textureLodOffset(%s,%s,0.0,%s);", texel, texture, coords, offsetStr)
			}
		} else {
			if c.isFragment() {
				c.add("%s=texture(%s,%s%s);", texel, texture, coords, bias)
			} else {
				c.add("%s=textureLod(%s,%s,0.0);", texel, texture, coords)
			}
		}
		return nil
	}
	if !offset.IsEmpty() {
		// The sparse API has no implicit-LOD offset form that accepts a bias.
		offsetStr, err := c.offsetVec(offset)
		if err != nil {
			return err
		}
		return c.addSparse(sparse, "sparseTextureLodOffsetARB(%s,%s,0.0,%s,%s)",
			texture, coords, offsetStr, texel)
	}
	if c.isFragment() {
		return c.addSparse(sparse, "sparseTextureARB(%s,%s,%s%s)", texture, coords, texel, bias)
	}
	return c.addSparse(sparse, "sparseTextureLodARB(%s,%s,0.0,%s)", texture, coords, texel)
}

// EmitImageSampleExplicitLod samples at an explicit LOD.
func (c *Context) EmitImageSampleExplicitLod(inst *ir.Inst, coords, lodLC string, offset ir.Value) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	if info.HasBias() {
		return notImplemented("EmitImageSampleExplicitLod Bias texture samples")
	}
	if info.HasLodClamp() {
		return notImplemented("EmitImageSampleExplicitLod Lod clamp samples")
	}
	texture, err := c.texture(info, useColor)
	if err != nil {
		return err
	}
	texel, err := c.vars.Define(inst, VarF32x4)
	if err != nil {
		return err
	}
	sparse := c.prepareSparse(inst)
	if sparse == nil {
		if !offset.IsEmpty() {
			offsetStr, err := c.offsetVec(offset)
			if err != nil {
				return err
			}
			c.add("%s=textureLodOffset(%s,%s,%s,%s);", texel, texture, coords, lodLC, offsetStr)
		} else {
			c.add("%s=textureLod(%s,%s,%s);", texel, texture, coords, lodLC)
		}
		return nil
	}
	if !offset.IsEmpty() {
		intCoords, err := castToIntVec(coords, info.Type())
		if err != nil {
			return err
		}
		offsetStr, err := c.offsetVec(offset)
		if err != nil {
			return err
		}
		return c.addSparse(sparse, "sparseTexelFetchOffsetARB(%s,%s,int(%s),%s,%s)",
			texture, intCoords, lodLC, offsetStr, texel)
	}
	return c.addSparse(sparse, "sparseTextureLodARB(%s,%s,%s,%s)", texture, coords, lodLC, texel)
}

// EmitImageSampleDrefImplicitLod samples with depth comparison and
// derivatives-based LOD. Biased samples are rejected, so biasLC is unused.
func (c *Context) EmitImageSampleDrefImplicitLod(inst *ir.Inst, coords, dref, biasLC string, offset ir.Value) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	if sparse := c.prepareSparse(inst); sparse != nil {
		return notImplemented("EmitImageSampleDrefImplicitLod Sparse texture samples")
	}
	if info.HasBias() {
		return notImplemented("EmitImageSampleDrefImplicitLod Bias texture samples")
	}
	if info.HasLodClamp() {
		return notImplemented("EmitImageSampleDrefImplicitLod Lod clamp samples")
	}
	texture, err := c.texture(info, useShadow)
	if err != nil {
		return err
	}
	if c.useShadowGradFallback(info.Type(), false) {
		return c.emitShadowGradFallback(inst, info, texture, coords, dref)
	}
	cubeArray := info.Type() == ir.ColorArrayCube
	cast := shadowCoordCast(info.Type())
	if !offset.IsEmpty() {
		offsetStr, err := c.offsetVec(offset)
		if err != nil {
			return err
		}
		switch {
		case cubeArray && c.isFragment():
			return c.addDefined(inst, VarF32, "%s=textureOffset(%s,%s,%s,%s);",
				texture, coords, dref, offsetStr)
		case cubeArray:
			return c.addDefined(inst, VarF32, "%s=textureLodOffset(%s,%s,%s,0.0,%s);",
				texture, coords, dref, offsetStr)
		case c.isFragment():
			return c.addDefined(inst, VarF32, "%s=textureOffset(%s,%s(%s,%s),%s);",
				texture, cast, coords, dref, offsetStr)
		default:
			return c.addDefined(inst, VarF32, "%s=textureLodOffset(%s,%s(%s,%s),0.0,%s);",
				texture, cast, coords, dref, offsetStr)
		}
	}
	switch {
	case cubeArray && c.isFragment():
		return c.addDefined(inst, VarF32, "%s=texture(%s,vec4(%s),%s);", texture, coords, dref)
	case cubeArray:
		return c.addDefined(inst, VarF32, "%s=textureLod(%s,%s,%s,0.0);", texture, coords, dref)
	case c.isFragment():
		return c.addDefined(inst, VarF32, "%s=texture(%s,%s(%s,%s));", texture, cast, coords, dref)
	default:
		return c.addDefined(inst, VarF32, "%s=textureLod(%s,%s(%s,%s),0.0);", texture, cast, coords, dref)
	}
}

// EmitImageSampleDrefExplicitLod samples with depth comparison at an
// explicit LOD.
func (c *Context) EmitImageSampleDrefExplicitLod(inst *ir.Inst, coords, dref, lodLC string, offset ir.Value) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	if sparse := c.prepareSparse(inst); sparse != nil {
		return notImplemented("EmitImageSampleDrefExplicitLod Sparse texture samples")
	}
	if info.HasBias() {
		return notImplemented("EmitImageSampleDrefExplicitLod Bias texture samples")
	}
	if info.HasLodClamp() {
		return notImplemented("EmitImageSampleDrefExplicitLod Lod clamp samples")
	}
	texture, err := c.texture(info, useShadow)
	if err != nil {
		return err
	}
	if c.useShadowGradFallback(info.Type(), true) {
		return c.emitShadowGradFallback(inst, info, texture, coords, dref)
	}
	cubeArray := info.Type() == ir.ColorArrayCube
	cast := shadowCoordCast(info.Type())
	if !offset.IsEmpty() {
		offsetStr, err := c.offsetVec(offset)
		if err != nil {
			return err
		}
		if cubeArray {
			return c.addDefined(inst, VarF32, "%s=textureLodOffset(%s,%s,%s,%s,%s);",
				texture, coords, dref, lodLC, offsetStr)
		}
		return c.addDefined(inst, VarF32, "%s=textureLodOffset(%s,%s(%s,%s),%s,%s);",
			texture, cast, coords, dref, lodLC, offsetStr)
	}
	if cubeArray {
		return c.addDefined(inst, VarF32, "%s=textureLod(%s,%s,%s,%s);", texture, coords, dref, lodLC)
	}
	return c.addDefined(inst, VarF32, "%s=textureLod(%s,%s(%s,%s),%s);", texture, cast, coords, dref, lodLC)
}

// EmitImageGather gathers one component of the four texels of a bilinear
// footprint. offset2 is only set for per-tap (PTP) offsets.
func (c *Context) EmitImageGather(inst *ir.Inst, coords string, offset, offset2 ir.Value) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	texture, err := c.texture(info, useColor)
	if err != nil {
		return err
	}
	texel, err := c.vars.Define(inst, VarF32x4)
	if err != nil {
		return err
	}
	component := info.GatherComponent()
	sparse := c.prepareSparse(inst)
	if sparse == nil {
		if offset.IsEmpty() {
			c.add("%s=textureGather(%s,%s,int(%d));", texel, texture, coords, component)
			return nil
		}
		if offset2.IsEmpty() {
			offsetStr, err := c.offsetVec(offset)
			if err != nil {
				return err
			}
			c.add("%s=textureGatherOffset(%s,%s,%s,int(%d));", texel, texture, coords, offsetStr, component)
			return nil
		}
		offsets, err := c.ptpOffsets(offset, offset2)
		if err != nil {
			return err
		}
		c.add("%s=textureGatherOffsets(%s,%s,%s,int(%d));", texel, texture, coords, offsets, component)
		return nil
	}
	if offset.IsEmpty() {
		return c.addSparse(sparse, "sparseTextureGatherARB(%s,%s,%s,int(%d))",
			texture, coords, texel, component)
	}
	intCoords, err := castToIntVec(coords, info.Type())
	if err != nil {
		return err
	}
	if offset2.IsEmpty() {
		offsetStr, err := c.offsetVec(offset)
		if err != nil {
			return err
		}
		return c.addSparse(sparse, "sparseTextureGatherOffsetARB(%s,%s,%s,%s,int(%d))",
			texture, intCoords, offsetStr, texel, component)
	}
	offsets, err := c.ptpOffsets(offset, offset2)
	if err != nil {
		return err
	}
	return c.addSparse(sparse, "sparseTextureGatherOffsetsARB(%s,%s,%s,%s,int(%d))",
		texture, intCoords, offsets, texel, component)
}

// EmitImageGatherDref gathers depth comparison results. The reference
// value takes the place of the component selector.
func (c *Context) EmitImageGatherDref(inst *ir.Inst, coords string, offset, offset2 ir.Value, dref string) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	texture, err := c.texture(info, useShadow)
	if err != nil {
		return err
	}
	texel, err := c.vars.Define(inst, VarF32x4)
	if err != nil {
		return err
	}
	sparse := c.prepareSparse(inst)
	if sparse == nil {
		if offset.IsEmpty() {
			c.add("%s=textureGather(%s,%s,%s);", texel, texture, coords, dref)
			return nil
		}
		if offset2.IsEmpty() {
			offsetStr, err := c.offsetVec(offset)
			if err != nil {
				return err
			}
			c.add("%s=textureGatherOffset(%s,%s,%s,%s);", texel, texture, coords, dref, offsetStr)
			return nil
		}
		offsets, err := c.ptpOffsets(offset, offset2)
		if err != nil {
			return err
		}
		c.add("%s=textureGatherOffsets(%s,%s,%s,%s);", texel, texture, coords, dref, offsets)
		return nil
	}
	if offset.IsEmpty() {
		return c.addSparse(sparse, "sparseTextureGatherARB(%s,%s,%s,%s)", texture, coords, dref, texel)
	}
	intCoords, err := castToIntVec(coords, info.Type())
	if err != nil {
		return err
	}
	if offset2.IsEmpty() {
		offsetStr, err := c.offsetVec(offset)
		if err != nil {
			return err
		}
		return c.addSparse(sparse, "sparseTextureGatherOffsetARB(%s,%s,%s,%s,%s)",
			texture, intCoords, dref, offsetStr, texel)
	}
	offsets, err := c.ptpOffsets(offset, offset2)
	if err != nil {
		return err
	}
	return c.addSparse(sparse, "sparseTextureGatherOffsetsARB(%s,%s,%s,%s,%s)",
		texture, intCoords, dref, offsets, texel)
}

// EmitImageFetch loads a single texel without filtering. offset, lod and
// ms are pre-rendered and empty when absent.
func (c *Context) EmitImageFetch(inst *ir.Inst, coords, offset, lod, ms string) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	if info.HasBias() {
		return notImplemented("EmitImageFetch Bias texture samples")
	}
	if info.HasLodClamp() {
		return notImplemented("EmitImageFetch Lod clamp samples")
	}
	if ms != "" {
		return notImplemented("EmitImageFetch multisample textures")
	}
	isBuffer := info.Type() == ir.Buffer
	if isBuffer && offset != "" {
		return notImplemented("EmitImageFetch offsets on texture buffers")
	}
	if lod == "" {
		lod = "0"
	}
	texture, err := c.texture(info, useColor)
	if err != nil {
		return err
	}
	sparse := c.prepareSparse(inst)
	texel, err := c.vars.Define(inst, VarF32x4)
	if err != nil {
		return err
	}
	if isBuffer {
		if sparse != nil {
			return notImplemented("EmitImageFetch Sparse texture buffers")
		}
		c.add("%s=texelFetch(%s,int(%s));", texel, texture, coords)
		return nil
	}
	intCoords, err := texelFetchCastToInt(coords, info.Type())
	if err != nil {
		return err
	}
	intOffset := ""
	if offset != "" {
		if intOffset, err = texelFetchCastToInt(offset, info.Type()); err != nil {
			return err
		}
	}
	if sparse == nil {
		if intOffset != "" {
			c.add("%s=texelFetchOffset(%s,%s,int(%s),%s);", texel, texture, intCoords, lod, intOffset)
		} else {
			c.add("%s=texelFetch(%s,%s,int(%s));", texel, texture, intCoords, lod)
		}
		return nil
	}
	if intOffset != "" {
		return c.addSparse(sparse, "sparseTexelFetchOffsetARB(%s,%s,int(%s),%s,%s)",
			texture, intCoords, lod, intOffset, texel)
	}
	return c.addSparse(sparse, "sparseTexelFetchARB(%s,%s,int(%s),%s)", texture, intCoords, lod, texel)
}

// EmitImageQueryDimensions packs the size of a mip level and the level
// count into a uvec4. Components the texture lacks are zero and the level
// count takes the last slot.
func (c *Context) EmitImageQueryDimensions(inst *ir.Inst, lod string) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	var format string
	switch info.Type() {
	case ir.Color1D:
		format = "%s=uvec4(uint(textureSize(%s,int(%s))),0u,0u,uint(textureQueryLevels(%s)));"
	case ir.ColorArray1D, ir.Color2D, ir.ColorCube:
		format = "%s=uvec4(uvec2(textureSize(%s,int(%s))),0u,uint(textureQueryLevels(%s)));"
	case ir.ColorArray2D, ir.Color3D, ir.ColorArrayCube:
		format = "%s=uvec4(uvec3(textureSize(%s,int(%s))),uint(textureQueryLevels(%s)));"
	case ir.Buffer:
		return notImplemented("EmitImageQueryDimensions Texture buffers")
	default:
		return logicError("unspecified image type %d", uint8(info.Type()))
	}
	texture, err := c.texture(info, useQuery)
	if err != nil {
		return err
	}
	return c.addDefined(inst, VarU32x4, format, texture, lod, texture)
}

// EmitImageQueryLod returns the LOD the hardware would use, padded to a
// vec4.
func (c *Context) EmitImageQueryLod(inst *ir.Inst, coords string) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	texture, err := c.texture(info, useQuery)
	if err != nil {
		return err
	}
	return c.addDefined(inst, VarF32x4, "%s=vec4(textureQueryLod(%s,%s),0.0,0.0);", texture, coords)
}

// EmitImageGradient samples with explicit derivatives. derivatives
// interleaves d/dx and d/dy, one pair per coordinate.
func (c *Context) EmitImageGradient(inst *ir.Inst, coords string, derivatives, offset, lodClamp ir.Value) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	if info.HasLodClamp() || !lodClamp.IsEmpty() {
		return notImplemented("EmitImageGradient Lod clamp samples")
	}
	if sparse := c.prepareSparse(inst); sparse != nil {
		return notImplemented("EmitImageGradient Sparse")
	}
	if !offset.IsEmpty() {
		return notImplemented("EmitImageGradient offset")
	}
	texture, err := c.texture(info, useColor)
	if err != nil {
		return err
	}
	derivativesVec, err := c.Consume(derivatives)
	if err != nil {
		return err
	}
	texel, err := c.vars.Define(inst, VarF32x4)
	if err != nil {
		return err
	}
	if info.NumDerivatives() > 1 {
		c.add("%s=textureGrad(%s,%s,vec2(%s.xz),vec2(%s.yz));", texel, texture, coords,
			derivativesVec, derivativesVec)
	} else {
		c.add("%s=textureGrad(%s,%s,float(%s.x),float(%s.y));", texel, texture, coords,
			derivativesVec, derivativesVec)
	}
	return nil
}

// EmitImageRead loads from a storage image. The result is always a uvec4
// regardless of the image format.
func (c *Context) EmitImageRead(inst *ir.Inst, coords string) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	if sparse := c.prepareSparse(inst); sparse != nil {
		return notImplemented("EmitImageRead Sparse")
	}
	image, err := c.image(info)
	if err != nil {
		return err
	}
	intCoords, err := texelFetchCastToInt(coords, info.Type())
	if err != nil {
		return err
	}
	c.useExtension(extImageLoadFormatted)
	return c.addDefined(inst, VarU32x4, "%s=uvec4(imageLoad(%s,%s));", image, intCoords)
}

// EmitImageWrite stores color to a storage image. It has no result.
func (c *Context) EmitImageWrite(inst *ir.Inst, coords, color string) error {
	info, err := textureInfoOf(inst)
	if err != nil {
		return err
	}
	image, err := c.image(info)
	if err != nil {
		return err
	}
	intCoords, err := texelFetchCastToInt(coords, info.Type())
	if err != nil {
		return err
	}
	c.add("imageStore(%s,%s,%s);", image, intCoords, color)
	return nil
}
