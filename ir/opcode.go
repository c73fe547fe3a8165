package ir

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Opcode identifies the operation performed by an instruction.
type Opcode uint16

const (
	OpCompositeConstructU32x2 Opcode = iota
	OpCompositeConstructU32x3
	OpCompositeConstructU32x4
	OpCompositeConstructF32x2
	OpCompositeConstructF32x3
	OpCompositeConstructF32x4

	// OpGetSparseFromOp is the residency pseudo-instruction of a sparse
	// texture operation. Its only argument references the parent.
	OpGetSparseFromOp

	// Image operations on a fixed descriptor.
	OpImageSampleImplicitLod
	OpImageSampleExplicitLod
	OpImageSampleDrefImplicitLod
	OpImageSampleDrefExplicitLod
	OpImageGather
	OpImageGatherDref
	OpImageFetch
	OpImageQueryDimensions
	OpImageQueryLod
	OpImageGradient
	OpImageRead
	OpImageWrite

	// Image operations addressed through a runtime handle.
	OpBindlessImageSampleImplicitLod
	OpBindlessImageSampleExplicitLod
	OpBindlessImageSampleDrefImplicitLod
	OpBindlessImageSampleDrefExplicitLod
	OpBindlessImageGather
	OpBindlessImageGatherDref
	OpBindlessImageFetch
	OpBindlessImageQueryDimensions
	OpBindlessImageQueryLod
	OpBindlessImageGradient
	OpBindlessImageRead
	OpBindlessImageWrite

	// Image operations addressed through a runtime index into a bound array.
	OpBoundImageSampleImplicitLod
	OpBoundImageSampleExplicitLod
	OpBoundImageSampleDrefImplicitLod
	OpBoundImageSampleDrefExplicitLod
	OpBoundImageGather
	OpBoundImageGatherDref
	OpBoundImageFetch
	OpBoundImageQueryDimensions
	OpBoundImageQueryLod
	OpBoundImageGradient
	OpBoundImageRead
	OpBoundImageWrite

	opcodeCount
)

const imageCategoryCount = OpImageWrite - OpImageSampleImplicitLod + 1

type opcodeInfo struct {
	name    string
	numArgs int
	// optional has bit i set when argument i may be empty.
	optional uint8
}

// Image operations take the resource index first; it is unused for
// directly addressed descriptors.
var opcodeTable = [opcodeCount]opcodeInfo{
	OpCompositeConstructU32x2: {"CompositeConstructU32x2", 2, 0},
	OpCompositeConstructU32x3: {"CompositeConstructU32x3", 3, 0},
	OpCompositeConstructU32x4: {"CompositeConstructU32x4", 4, 0},
	OpCompositeConstructF32x2: {"CompositeConstructF32x2", 2, 0},
	OpCompositeConstructF32x3: {"CompositeConstructF32x3", 3, 0},
	OpCompositeConstructF32x4: {"CompositeConstructF32x4", 4, 0},
	OpGetSparseFromOp:         {"GetSparseFromOp", 1, 0},

	OpImageSampleImplicitLod:     {"ImageSampleImplicitLod", 4, 0b01101},     // index, coords, bias_lc, offset
	OpImageSampleExplicitLod:     {"ImageSampleExplicitLod", 4, 0b01001},     // index, coords, lod_lc, offset
	OpImageSampleDrefImplicitLod: {"ImageSampleDrefImplicitLod", 5, 0b11001}, // index, coords, dref, bias_lc, offset
	OpImageSampleDrefExplicitLod: {"ImageSampleDrefExplicitLod", 5, 0b10001}, // index, coords, dref, lod_lc, offset
	OpImageGather:                {"ImageGather", 4, 0b01101},                // index, coords, offset, offset2
	OpImageGatherDref:            {"ImageGatherDref", 5, 0b01101},            // index, coords, offset, offset2, dref
	OpImageFetch:                 {"ImageFetch", 5, 0b11101},                 // index, coords, offset, lod, ms
	OpImageQueryDimensions:       {"ImageQueryDimensions", 2, 0b00001},       // index, lod
	OpImageQueryLod:              {"ImageQueryLod", 2, 0b00001},              // index, coords
	OpImageGradient:              {"ImageGradient", 5, 0b11001},              // index, coords, derivatives, offset, lod_clamp
	OpImageRead:                  {"ImageRead", 2, 0b00001},                  // index, coords
	OpImageWrite:                 {"ImageWrite", 3, 0b00001},                 // index, coords, color
}

func init() {
	for op := OpImageSampleImplicitLod; op <= OpImageWrite; op++ {
		base := opcodeTable[op]
		// Indirectly addressed operations need their handle or index.
		optional := base.optional &^ 1
		opcodeTable[op+imageCategoryCount] = opcodeInfo{"Bindless" + base.name, base.numArgs, optional}
		opcodeTable[op+2*imageCategoryCount] = opcodeInfo{"Bound" + base.name, base.numArgs, optional}
	}
}

// String returns the CamelCase opcode name.
func (op Opcode) String() string {
	if op < opcodeCount {
		return opcodeTable[op].name
	}
	return fmt.Sprintf("Opcode(%d)", uint16(op))
}

// NumArgs returns the fixed number of arguments of op.
func (op Opcode) NumArgs() int {
	if op < opcodeCount {
		return opcodeTable[op].numArgs
	}
	return 0
}

// IsOptionalArg reports whether argument i of op may be left empty.
func (op Opcode) IsOptionalArg(i int) bool {
	if op >= opcodeCount || i < 0 || i >= opcodeTable[op].numArgs {
		return false
	}
	return opcodeTable[op].optional&(1<<i) != 0
}

// Valid reports whether op is a known opcode.
func (op Opcode) Valid() bool {
	return op < opcodeCount
}

// IsImage reports whether op is a texture or image operation in any
// addressing mode.
func (op Opcode) IsImage() bool {
	return op >= OpImageSampleImplicitLod && op < opcodeCount
}

// Addressing describes how an image operation locates its resource.
type Addressing uint8

const (
	// AddressingNone is reported for non-image opcodes.
	AddressingNone Addressing = iota
	AddressingDirect
	AddressingBindless
	AddressingBound
)

// Addressing returns the resource addressing mode of op.
func (op Opcode) Addressing() Addressing {
	switch {
	case !op.IsImage():
		return AddressingNone
	case op <= OpImageWrite:
		return AddressingDirect
	case op <= OpBindlessImageWrite:
		return AddressingBindless
	default:
		return AddressingBound
	}
}

// Category maps an image opcode of any addressing mode to the directly
// addressed opcode of the same operation. Other opcodes map to themselves.
func (op Opcode) Category() Opcode {
	if !op.IsImage() {
		return op
	}
	return OpImageSampleImplicitLod + (op-OpImageSampleImplicitLod)%imageCategoryCount
}

// Opcodes returns every known opcode in declaration order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, opcodeCount)
	for op := Opcode(0); op < opcodeCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// ParseOpcode returns the opcode with the given name. Both the CamelCase
// form ("ImageSampleImplicitLod") and the snake_case form
// ("image_sample_implicit_lod") are accepted.
func ParseOpcode(name string) (Opcode, error) {
	if strings.Contains(name, "_") {
		caser := cases.Title(language.English)
		words := strings.Split(name, "_")
		for i, w := range words {
			words[i] = caser.String(w)
		}
		name = strings.Join(words, "")
	}
	for op := Opcode(0); op < opcodeCount; op++ {
		if strings.EqualFold(opcodeTable[op].name, name) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown opcode %q", name)
}
