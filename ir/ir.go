package ir

import (
	"fmt"
	"strings"
)

// Stage represents a shader stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StageTessellationControl
	StageTessellationEval
	StageGeometry
	StageFragment
	StageCompute
)

var stageNames = [...]string{
	StageVertex:              "vertex",
	StageTessellationControl: "tess_control",
	StageTessellationEval:    "tess_eval",
	StageGeometry:            "geometry",
	StageFragment:            "fragment",
	StageCompute:             "compute",
}

// String returns the lower-case stage name.
func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// ParseStage returns the stage with the given name.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if strings.EqualFold(n, name) {
			return Stage(i), nil //nolint:gosec // G115: i is bounded by stageNames
		}
	}
	return 0, fmt.Errorf("unknown shader stage %q", name)
}

// Program is an ordered list of instructions forming one shader
// translation unit. Instructions are owned by the program; backends read
// them and only hand over residency pseudo-instructions.
type Program struct {
	insts []*Inst
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{insts: make([]*Inst, 0, 16)}
}

// NewInst appends a new instruction in program order and returns it.
// Pass the zero TextureInfo for instructions that carry no descriptor.
func (p *Program) NewInst(op Opcode, info TextureInfo, args ...Value) *Inst {
	inst := &Inst{
		op:    op,
		index: len(p.insts),
		args:  append([]Value(nil), args...),
		info:  info,
	}
	p.insts = append(p.insts, inst)
	return inst
}

// Insts returns the instructions in program order.
func (p *Program) Insts() []*Inst {
	return p.insts
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.insts)
}
