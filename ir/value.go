package ir

import (
	"fmt"
	"math"
)

// ValueType is the type of an immediate value.
type ValueType uint8

const (
	TypeVoid ValueType = iota
	TypeU32
	TypeF32
	TypeOpaque // reference to an instruction
)

// Value is an instruction argument. The zero Value is empty and stands for
// an omitted optional operand.
type Value struct {
	typ  ValueType
	bits uint32
	inst *Inst
}

// U32 returns an unsigned 32-bit immediate.
func U32(v uint32) Value {
	return Value{typ: TypeU32, bits: v}
}

// F32 returns a 32-bit float immediate.
func F32(v float32) Value {
	return Value{typ: TypeF32, bits: math.Float32bits(v)}
}

// Ref returns a value produced by inst.
func Ref(inst *Inst) Value {
	if inst == nil {
		return Value{}
	}
	return Value{typ: TypeOpaque, inst: inst}
}

// IsEmpty reports whether the value is the empty sentinel.
func (v Value) IsEmpty() bool {
	return v.typ == TypeVoid
}

// IsImmediate reports whether the value is a constant.
func (v Value) IsImmediate() bool {
	return v.typ == TypeU32 || v.typ == TypeF32
}

// Type returns the value type.
func (v Value) Type() ValueType {
	return v.typ
}

// U32 returns the raw bits of an immediate.
func (v Value) U32() uint32 {
	return v.bits
}

// F32 returns the immediate as a float.
func (v Value) F32() float32 {
	return math.Float32frombits(v.bits)
}

// Inst returns the producing instruction, or nil for empty and immediate
// values.
func (v Value) Inst() *Inst {
	return v.inst
}

func (v Value) String() string {
	switch v.typ {
	case TypeU32:
		return fmt.Sprintf("%du", v.bits)
	case TypeF32:
		return fmt.Sprintf("%gf", v.F32())
	case TypeOpaque:
		return fmt.Sprintf("%%%d", v.inst.index)
	default:
		return "<empty>"
	}
}
