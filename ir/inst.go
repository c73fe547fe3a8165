package ir

import (
	"errors"
	"fmt"
)

// Inst is a single IR instruction.
type Inst struct {
	op     Opcode
	index  int
	args   []Value
	info   TextureInfo
	sparse *Inst
	parent *Inst // set on residency pseudo-instructions
}

// Op returns the instruction opcode.
func (i *Inst) Op() Opcode {
	return i.op
}

// Index returns the position of the instruction in its program.
func (i *Inst) Index() int {
	return i.index
}

// NumArgs returns the number of arguments.
func (i *Inst) NumArgs() int {
	return len(i.args)
}

// Arg returns the n-th argument, or the empty value when n is out of range.
func (i *Inst) Arg(n int) Value {
	if n < 0 || n >= len(i.args) {
		return Value{}
	}
	return i.args[n]
}

// Args returns the arguments. The slice must not be modified.
func (i *Inst) Args() []Value {
	return i.args
}

// AreAllArgsImmediates reports whether every argument is a constant.
func (i *Inst) AreAllArgsImmediates() bool {
	for _, arg := range i.args {
		if !arg.IsImmediate() {
			return false
		}
	}
	return true
}

// TextureInfo returns the texture descriptor of an image instruction.
func (i *Inst) TextureInfo() (TextureInfo, bool) {
	return i.info, !i.info.IsZero()
}

// ErrSparseAttached is returned when a residency query is linked twice.
var ErrSparseAttached = errors.New("residency query already attached")

// AttachSparse links a GetSparseFromOp pseudo-instruction to i.
func (i *Inst) AttachSparse(pseudo *Inst) error {
	if pseudo == nil || pseudo.op != OpGetSparseFromOp {
		return fmt.Errorf("attach residency query to %%%d: not a %s instruction", i.index, OpGetSparseFromOp)
	}
	if i.sparse != nil || pseudo.parent != nil {
		return fmt.Errorf("attach %%%d to %%%d: %w", pseudo.index, i.index, ErrSparseAttached)
	}
	i.sparse = pseudo
	pseudo.parent = i
	return nil
}

// HasSparse reports whether a residency query is still waiting to be
// taken.
func (i *Inst) HasSparse() bool {
	return i.sparse != nil
}

// TakeSparse hands over the residency pseudo-instruction. The handle is
// cleared, so only the first call returns it.
func (i *Inst) TakeSparse() *Inst {
	s := i.sparse
	i.sparse = nil
	return s
}

// Parent returns the instruction a residency pseudo-instruction was
// attached to.
func (i *Inst) Parent() *Inst {
	return i.parent
}

func (i *Inst) String() string {
	return fmt.Sprintf("%%%d = %s %v", i.index, i.op, i.args)
}
