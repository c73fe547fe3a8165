// Package recomp translates the texture and image instructions of
// recompiled GPU shaders into GLSL.
//
// A translation unit is a JSON document holding one shader's instruction
// stream together with its stage, target version, driver profile and
// descriptor bindings:
//
//	{
//	  "stage": "fragment",
//	  "version": "450",
//	  "profile": {"support_texture_shadow_lod": true},
//	  "bindings": {"textures": {"0": 3}},
//	  "insts": [
//	    {"id": 0, "op": "composite_construct_f32x2", "args": [{"f32": 0.5}, {"f32": 0.5}]},
//	    {"id": 1, "op": "image_sample_implicit_lod",
//	     "texture": {"type": "Color2D", "descriptor": 0},
//	     "args": [null, {"ref": 0}, null, null]}
//	  ]
//	}
//
// The pipeline mirrors a compiler driver:
//  1. LoadUnit decodes the JSON document
//  2. Unit.Lower builds the IR program and backend options
//  3. ir.Validate checks the program structure
//  4. glsl.Compile emits the shader
//
// Translate runs the whole pipeline for one unit; TranslateAll runs it for
// many units concurrently.
package recomp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/recomp/glsl"
	"github.com/gogpu/recomp/ir"
)

// Unit is a decoded translation unit.
type Unit struct {
	// Name identifies the unit in errors and logs, usually its file name.
	Name string `json:"-"`

	Stage    string       `json:"stage"`
	Version  string       `json:"version"`
	Profile  UnitProfile  `json:"profile"`
	Bindings UnitBindings `json:"bindings"`
	Insts    []UnitInst   `json:"insts"`
}

// UnitProfile holds the driver capabilities of a unit.
type UnitProfile struct {
	SupportTextureShadowLod bool `json:"support_texture_shadow_lod"`
}

// UnitBindings maps descriptor indices to binding slots.
type UnitBindings struct {
	Textures       map[uint32]uint32 `json:"textures,omitempty"`
	TextureBuffers map[uint32]uint32 `json:"texture_buffers,omitempty"`
	Images         map[uint32]uint32 `json:"images,omitempty"`
	ImageBuffers   map[uint32]uint32 `json:"image_buffers,omitempty"`
}

// UnitInst is one instruction of a unit. Args holds one entry per operand;
// null stands for an omitted operand.
type UnitInst struct {
	ID      int          `json:"id"`
	Op      string       `json:"op"`
	Texture *UnitTexture `json:"texture,omitempty"`
	Args    []*UnitArg   `json:"args"`
}

// UnitTexture is the texture descriptor of an image instruction.
type UnitTexture struct {
	Type            string `json:"type"`
	Descriptor      uint32 `json:"descriptor"`
	Bias            bool   `json:"bias,omitempty"`
	LodClamp        bool   `json:"lod_clamp,omitempty"`
	GatherComponent uint8  `json:"gather_component,omitempty"`
	Derivatives     uint8  `json:"derivatives,omitempty"`
}

// UnitArg is an operand: exactly one field must be set. S32 is stored as
// its two's complement bits, the way signed offsets reach the backend.
type UnitArg struct {
	U32 *uint32  `json:"u32,omitempty"`
	S32 *int32   `json:"s32,omitempty"`
	F32 *float32 `json:"f32,omitempty"`
	Ref *int     `json:"ref,omitempty"`
}

// Result is the translation of one unit.
type Result struct {
	Name   string
	Source string
	Info   glsl.TranslationInfo
}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.DiscardHandler))
}

// SetLogger sets the logger receiving per-unit progress and the backend's
// approximation warnings. Passing nil restores the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	defaultLogger.Store(l)
}

// LoadUnit decodes a translation unit. Unknown fields are rejected.
func LoadUnit(r io.Reader) (*Unit, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var u Unit
	if err := dec.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode unit: %w", err)
	}
	return &u, nil
}

// Options returns the backend options of the unit. Empty fields select
// GLSL 450 and the fragment stage.
func (u *Unit) Options() (glsl.Options, error) {
	opts := glsl.DefaultOptions()
	if u.Stage != "" {
		stage, err := ir.ParseStage(u.Stage)
		if err != nil {
			return glsl.Options{}, err
		}
		opts.Stage = stage
	}
	if u.Version != "" {
		version, err := glsl.ParseVersion(u.Version)
		if err != nil {
			return glsl.Options{}, err
		}
		opts.LangVersion = version
	}
	opts.Profile = glsl.Profile{SupportTextureShadowLod: u.Profile.SupportTextureShadowLod}
	opts.Bindings = glsl.Bindings{
		Textures:       u.Bindings.Textures,
		TextureBuffers: u.Bindings.TextureBuffers,
		Images:         u.Bindings.Images,
		ImageBuffers:   u.Bindings.ImageBuffers,
	}
	return opts, nil
}

// Lower builds a fresh IR program from the unit. Residency queries whose
// first operand references their parent are attached to it.
func (u *Unit) Lower() (*ir.Program, error) {
	p := ir.NewProgram()
	byID := make(map[int]*ir.Inst, len(u.Insts))
	for i := range u.Insts {
		ui := &u.Insts[i]
		if _, dup := byID[ui.ID]; dup {
			return nil, fmt.Errorf("inst %d: duplicate id", ui.ID)
		}
		op, err := ir.ParseOpcode(ui.Op)
		if err != nil {
			return nil, fmt.Errorf("inst %d: %w", ui.ID, err)
		}
		var info ir.TextureInfo
		if ui.Texture != nil {
			if info, err = ui.Texture.info(); err != nil {
				return nil, fmt.Errorf("inst %d: %w", ui.ID, err)
			}
		}
		args := make([]ir.Value, len(ui.Args))
		for n, arg := range ui.Args {
			if args[n], err = arg.value(byID); err != nil {
				return nil, fmt.Errorf("inst %d: argument %d: %w", ui.ID, n, err)
			}
		}
		inst := p.NewInst(op, info, args...)
		byID[ui.ID] = inst

		if op == ir.OpGetSparseFromOp {
			if parent := inst.Arg(0).Inst(); parent != nil {
				if err := parent.AttachSparse(inst); err != nil {
					return nil, fmt.Errorf("inst %d: %w", ui.ID, err)
				}
			}
		}
	}
	return p, nil
}

func (t *UnitTexture) info() (ir.TextureInfo, error) {
	typ, err := ir.ParseTextureType(t.Type)
	if err != nil {
		return ir.TextureInfo{}, err
	}
	var opts []ir.TextureOption
	if t.Bias {
		opts = append(opts, ir.WithBias())
	}
	if t.LodClamp {
		opts = append(opts, ir.WithLodClamp())
	}
	if t.GatherComponent != 0 {
		opts = append(opts, ir.WithGatherComponent(t.GatherComponent))
	}
	if t.Derivatives != 0 {
		opts = append(opts, ir.WithDerivatives(t.Derivatives))
	}
	return ir.NewTextureInfo(typ, t.Descriptor, opts...)
}

func (a *UnitArg) value(byID map[int]*ir.Inst) (ir.Value, error) {
	if a == nil {
		return ir.Value{}, nil
	}
	set := 0
	var v ir.Value
	if a.U32 != nil {
		set++
		v = ir.U32(*a.U32)
	}
	if a.S32 != nil {
		set++
		v = ir.U32(uint32(*a.S32)) //nolint:gosec // G115: two's complement
	}
	if a.F32 != nil {
		set++
		v = ir.F32(*a.F32)
	}
	if a.Ref != nil {
		set++
		inst, ok := byID[*a.Ref]
		if !ok {
			return ir.Value{}, fmt.Errorf("reference to undefined id %d", *a.Ref)
		}
		v = ir.Ref(inst)
	}
	if set != 1 {
		return ir.Value{}, fmt.Errorf("operand must set exactly one of u32, s32, f32, ref")
	}
	return v, nil
}

// Translate lowers, validates and compiles one unit.
func Translate(u *Unit) (Result, error) {
	opts, err := u.Options()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", u.Name, err)
	}
	program, err := u.Lower()
	if err != nil {
		return Result{}, fmt.Errorf("%s: lowering error: %w", u.Name, err)
	}

	validationErrors, err := ir.Validate(program)
	if err != nil {
		return Result{}, fmt.Errorf("%s: validation error: %w", u.Name, err)
	}
	if len(validationErrors) > 0 {
		return Result{}, fmt.Errorf("%s: validation failed: %w", u.Name, &validationErrors[0])
	}

	log := defaultLogger.Load().With("unit", u.Name)
	opts.Logger = log
	source, info, err := glsl.Compile(program, opts)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", u.Name, err)
	}
	log.Debug("translated", "stage", opts.Stage.String(), "insts", program.Len(),
		"extensions", len(info.UsedExtensions))
	return Result{Name: u.Name, Source: source, Info: info}, nil
}

// TranslateAll translates units concurrently, at most jobs at a time
// (unlimited when jobs <= 0). Results are in input order. The first
// failure cancels the remaining units and is returned.
func TranslateAll(ctx context.Context, units []*Unit, jobs int) ([]Result, error) {
	results := make([]Result, len(units))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, u := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Translate(u)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
