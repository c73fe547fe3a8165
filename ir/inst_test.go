package ir

import (
	"errors"
	"testing"
)

func TestValue(t *testing.T) {
	p := NewProgram()
	inst := p.NewInst(OpCompositeConstructU32x2, TextureInfo{}, U32(1), U32(2))

	tests := []struct {
		v         Value
		empty     bool
		immediate bool
		str       string
	}{
		{Value{}, true, false, "<empty>"},
		{U32(7), false, true, "7u"},
		{F32(1.5), false, true, "1.5f"},
		{Ref(inst), false, false, "%0"},
		{Ref(nil), true, false, "<empty>"},
	}
	for _, tt := range tests {
		if tt.v.IsEmpty() != tt.empty || tt.v.IsImmediate() != tt.immediate || tt.v.String() != tt.str {
			t.Errorf("%s: empty=%v immediate=%v", tt.v, tt.v.IsEmpty(), tt.v.IsImmediate())
		}
	}
	if F32(-0.25).F32() != -0.25 {
		t.Error("F32 round trip failed")
	}
	if Ref(inst).Inst() != inst {
		t.Error("Ref does not keep the instruction")
	}
}

func TestInst_Args(t *testing.T) {
	p := NewProgram()
	a := p.NewInst(OpCompositeConstructU32x2, TextureInfo{}, U32(1), U32(2))
	b := p.NewInst(OpCompositeConstructU32x2, TextureInfo{}, Ref(a), U32(2))

	if a.Index() != 0 || b.Index() != 1 || p.Len() != 2 {
		t.Fatalf("indices %d %d, len %d", a.Index(), b.Index(), p.Len())
	}
	if !a.AreAllArgsImmediates() {
		t.Error("constant composite not reported immediate")
	}
	if b.AreAllArgsImmediates() {
		t.Error("composite with a reference reported immediate")
	}
	if !b.Arg(5).IsEmpty() {
		t.Error("out-of-range argument should be empty")
	}
	if _, ok := a.TextureInfo(); ok {
		t.Error("non-image instruction has texture info")
	}
	if got := b.String(); got != "%1 = CompositeConstructU32x2 [%0 2u]" {
		t.Errorf("String() = %q", got)
	}
}

func TestInst_Sparse(t *testing.T) {
	p := NewProgram()
	sample := p.NewInst(OpImageFetch, MustTextureInfo(Color2D, 0), Value{}, U32(0), Value{}, Value{}, Value{})
	pseudo := p.NewInst(OpGetSparseFromOp, TextureInfo{}, Ref(sample))
	other := p.NewInst(OpGetSparseFromOp, TextureInfo{}, Ref(sample))

	if err := sample.AttachSparse(pseudo); err != nil {
		t.Fatalf("AttachSparse() error = %v", err)
	}
	if !sample.HasSparse() || pseudo.Parent() != sample {
		t.Fatal("residency query not linked")
	}
	if err := sample.AttachSparse(other); !errors.Is(err, ErrSparseAttached) {
		t.Errorf("second AttachSparse() error = %v, want ErrSparseAttached", err)
	}
	if err := sample.AttachSparse(sample); err == nil {
		t.Error("attaching a non-query instruction should fail")
	}

	if got := sample.TakeSparse(); got != pseudo {
		t.Errorf("TakeSparse() = %v, want %v", got, pseudo)
	}
	if got := sample.TakeSparse(); got != nil {
		t.Errorf("second TakeSparse() = %v, want nil", got)
	}
	if sample.HasSparse() {
		t.Error("handle not cleared")
	}
}
