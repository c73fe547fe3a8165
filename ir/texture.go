package ir

import (
	"fmt"
	"strings"
)

// TextureType is the dimensionality of a texture or image resource.
type TextureType uint8

const (
	Color1D TextureType = iota
	ColorArray1D
	Color2D
	ColorArray2D
	Color3D
	ColorCube
	ColorArrayCube
	Buffer
)

var textureTypeNames = [...]string{
	Color1D:        "Color1D",
	ColorArray1D:   "ColorArray1D",
	Color2D:        "Color2D",
	ColorArray2D:   "ColorArray2D",
	Color3D:        "Color3D",
	ColorCube:      "ColorCube",
	ColorArrayCube: "ColorArrayCube",
	Buffer:         "Buffer",
}

// String returns the texture type name.
func (t TextureType) String() string {
	if t.Valid() {
		return textureTypeNames[t]
	}
	return fmt.Sprintf("TextureType(%d)", uint8(t))
}

// Valid reports whether t is one of the known texture types.
func (t TextureType) Valid() bool {
	return int(t) < len(textureTypeNames)
}

// ParseTextureType returns the texture type with the given name.
// Matching is case-insensitive.
func ParseTextureType(name string) (TextureType, error) {
	for i, n := range textureTypeNames {
		if strings.EqualFold(n, name) {
			return TextureType(i), nil //nolint:gosec // G115: i is bounded by textureTypeNames
		}
	}
	return 0, fmt.Errorf("unknown texture type %q", name)
}

// Limits of the packed descriptor fields.
const (
	MaxGatherComponent = 3
	MaxDerivatives     = 3
)

// TextureInfo describes the resource and modifiers of a texture or image
// instruction. It is immutable; build it with NewTextureInfo.
type TextureInfo struct {
	typ             TextureType
	descriptor      uint32
	hasBias         bool
	hasLodClamp     bool
	gatherComponent uint8
	numDerivatives  uint8
	valid           bool
}

// TextureOption sets an optional TextureInfo field.
type TextureOption func(*TextureInfo)

// WithBias marks the instruction as carrying a LOD bias operand.
func WithBias() TextureOption {
	return func(i *TextureInfo) { i.hasBias = true }
}

// WithLodClamp marks the instruction as carrying a LOD clamp operand.
func WithLodClamp() TextureOption {
	return func(i *TextureInfo) { i.hasLodClamp = true }
}

// WithGatherComponent selects the component fetched by a gather.
func WithGatherComponent(c uint8) TextureOption {
	return func(i *TextureInfo) { i.gatherComponent = c }
}

// WithDerivatives sets the number of derivative pairs of a gradient sample.
func WithDerivatives(n uint8) TextureOption {
	return func(i *TextureInfo) { i.numDerivatives = n }
}

// NewTextureInfo builds a validated descriptor.
func NewTextureInfo(typ TextureType, descriptor uint32, opts ...TextureOption) (TextureInfo, error) {
	info := TextureInfo{typ: typ, descriptor: descriptor}
	for _, opt := range opts {
		opt(&info)
	}
	if !typ.Valid() {
		return TextureInfo{}, fmt.Errorf("invalid texture type %d", uint8(typ))
	}
	if info.gatherComponent > MaxGatherComponent {
		return TextureInfo{}, fmt.Errorf("gather component %d out of range", info.gatherComponent)
	}
	if info.numDerivatives > MaxDerivatives {
		return TextureInfo{}, fmt.Errorf("derivative count %d out of range", info.numDerivatives)
	}
	info.valid = true
	return info, nil
}

// MustTextureInfo is like NewTextureInfo but panics on error.
// It simplifies building programs from trusted tables and tests.
func MustTextureInfo(typ TextureType, descriptor uint32, opts ...TextureOption) TextureInfo {
	info, err := NewTextureInfo(typ, descriptor, opts...)
	if err != nil {
		panic(err)
	}
	return info
}

func (i TextureInfo) Type() TextureType      { return i.typ }
func (i TextureInfo) Descriptor() uint32     { return i.descriptor }
func (i TextureInfo) HasBias() bool          { return i.hasBias }
func (i TextureInfo) HasLodClamp() bool      { return i.hasLodClamp }
func (i TextureInfo) GatherComponent() uint8 { return i.gatherComponent }
func (i TextureInfo) NumDerivatives() uint8  { return i.numDerivatives }

// IsZero reports whether i is the zero value, i.e. not built by
// NewTextureInfo.
func (i TextureInfo) IsZero() bool {
	return !i.valid
}
