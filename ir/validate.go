package ir

import (
	"fmt"
)

// ValidationError represents a validation error.
type ValidationError struct {
	Message string
	// Inst is the index of the offending instruction, or -1.
	Inst int
	Op   Opcode
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Inst >= 0 {
		return fmt.Sprintf("instruction %%%d (%s): %s", e.Inst, e.Op, e.Message)
	}
	return e.Message
}

// Validator validates IR programs.
type Validator struct {
	program *Program
	errors  []ValidationError
	owned   map[*Inst]int
}

// Validate checks the program for structural correctness.
// Returns validation errors if any, or nil if the program is valid.
func Validate(program *Program) ([]ValidationError, error) {
	if program == nil {
		return nil, fmt.Errorf("program is nil")
	}

	v := &Validator{
		program: program,
		errors:  make([]ValidationError, 0),
		owned:   make(map[*Inst]int, len(program.insts)),
	}
	for idx, inst := range program.insts {
		v.owned[inst] = idx
	}

	for _, inst := range program.insts {
		v.validateInst(inst)
	}

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

func (v *Validator) addError(inst *Inst, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Message: fmt.Sprintf(format, args...),
		Inst:    inst.index,
		Op:      inst.op,
	})
}

func (v *Validator) validateInst(inst *Inst) {
	if !inst.op.Valid() {
		v.addError(inst, "unknown opcode")
		return
	}
	if got, want := len(inst.args), inst.op.NumArgs(); got != want {
		v.addError(inst, "expected %d arguments, got %d", want, got)
	}

	_, hasInfo := inst.TextureInfo()
	switch {
	case inst.op.IsImage() && !hasInfo:
		v.addError(inst, "image instruction without texture info")
	case !inst.op.IsImage() && hasInfo:
		v.addError(inst, "texture info on a non-image instruction")
	}

	for n, arg := range inst.args {
		if arg.IsEmpty() && n < inst.op.NumArgs() && !inst.op.IsOptionalArg(n) {
			v.addError(inst, "argument %d is required", n)
			continue
		}
		ref := arg.Inst()
		if ref == nil {
			continue
		}
		idx, ok := v.owned[ref]
		if !ok {
			v.addError(inst, "argument %d references an instruction outside the program", n)
			continue
		}
		if idx >= inst.index {
			v.addError(inst, "argument %d references %%%d which does not precede it", n, idx)
		}
	}

	if inst.sparse != nil && !inst.op.IsImage() {
		v.addError(inst, "residency query attached to a non-image instruction")
	}
	if inst.op == OpGetSparseFromOp {
		v.validateResidencyQuery(inst)
	}
}

func (v *Validator) validateResidencyQuery(inst *Inst) {
	if inst.parent == nil {
		v.addError(inst, "residency query is not attached to any instruction")
		return
	}
	if inst.Arg(0).Inst() != inst.parent {
		v.addError(inst, "residency query argument does not reference its parent %%%d", inst.parent.index)
	}
}
