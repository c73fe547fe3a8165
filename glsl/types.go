// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/recomp/ir"
)

// GLSL type name constants for repeated use.
const (
	glslTypeInt   = "int"
	glslTypeUint  = "uint"
	glslTypeFloat = "float"
)

// VarType is the GLSL type of a result binding.
type VarType uint8

const (
	VarU1 VarType = iota
	VarF32
	VarS32
	VarU32
	VarF32x2
	VarF32x3
	VarF32x4
	VarU32x2
	VarU32x3
	VarU32x4

	varTypeCount
)

var varTypeInfo = [varTypeCount]struct {
	glsl   string
	prefix string
}{
	VarU1:    {"bool", "b"},
	VarF32:   {glslTypeFloat, "f"},
	VarS32:   {glslTypeInt, "s"},
	VarU32:   {glslTypeUint, "u"},
	VarF32x2: {"vec2", "f2"},
	VarF32x3: {"vec3", "f3"},
	VarF32x4: {"vec4", "f4"},
	VarU32x2: {"uvec2", "u2"},
	VarU32x3: {"uvec3", "u3"},
	VarU32x4: {"uvec4", "u4"},
}

// String returns the GLSL type name.
func (t VarType) String() string {
	if t < varTypeCount {
		return varTypeInfo[t].glsl
	}
	return fmt.Sprintf("VarType(%d)", uint8(t))
}

// samplerToGLSL returns the combined sampler type for a texture type.
// shadow selects the depth-comparison variant.
func samplerToGLSL(t ir.TextureType, shadow bool) (string, error) {
	var name string
	switch t {
	case ir.Color1D:
		name = "sampler1D"
	case ir.ColorArray1D:
		name = "sampler1DArray"
	case ir.Color2D:
		name = "sampler2D"
	case ir.ColorArray2D:
		name = "sampler2DArray"
	case ir.Color3D:
		name = "sampler3D"
	case ir.ColorCube:
		name = "samplerCube"
	case ir.ColorArrayCube:
		name = "samplerCubeArray"
	case ir.Buffer:
		if shadow {
			return "", notImplemented("depth comparison on texture buffers")
		}
		return "samplerBuffer", nil
	default:
		return "", logicError("unspecified texture type %d", uint8(t))
	}
	if shadow {
		if t == ir.Color3D {
			return "", notImplemented("depth comparison on 3D textures")
		}
		name += "Shadow"
	}
	return name, nil
}

// imageToGLSL returns the storage image type for a texture type. Images
// are always declared unsigned; reads are reinterpreted by later IR.
func imageToGLSL(t ir.TextureType) (string, error) {
	switch t {
	case ir.Color1D:
		return "uimage1D", nil
	case ir.ColorArray1D:
		return "uimage1DArray", nil
	case ir.Color2D:
		return "uimage2D", nil
	case ir.ColorArray2D:
		return "uimage2DArray", nil
	case ir.Color3D:
		return "uimage3D", nil
	case ir.ColorCube:
		return "uimageCube", nil
	case ir.ColorArrayCube:
		return "uimageCubeArray", nil
	case ir.Buffer:
		return "uimageBuffer", nil
	default:
		return "", logicError("unspecified image type %d", uint8(t))
	}
}
