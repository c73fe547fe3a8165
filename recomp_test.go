package recomp

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/recomp/glsl"
	"github.com/gogpu/recomp/ir"
)

func loadUnit(t *testing.T, name, doc string) *Unit {
	t.Helper()
	u, err := LoadUnit(strings.NewReader(doc))
	require.NoError(t, err)
	u.Name = name
	return u
}

const sampleUnit = `{
  "stage": "fragment",
  "bindings": {"textures": {"0": 3}},
  "insts": [
    {"id": 0, "op": "composite_construct_f32x2", "args": [{"f32": 0.5}, {"f32": 0.25}]},
    {"id": 1, "op": "image_sample_implicit_lod",
     "texture": {"type": "Color2D", "descriptor": 0},
     "args": [null, {"ref": 0}, null, null]}
  ]
}`

func TestTranslate_Sample(t *testing.T) {
	res, err := Translate(loadUnit(t, "sample.json", sampleUnit))
	require.NoError(t, err)

	assert.Equal(t, "sample.json", res.Name)
	assert.True(t, strings.HasPrefix(res.Source, "#version 450 core\n"))
	assert.Contains(t, res.Source, "layout(binding=3) uniform sampler2D tex3;")
	assert.Contains(t, res.Source, "f2_0=vec2(0.5,0.25);")
	assert.Contains(t, res.Source, "f4_0=texture(tex3,f2_0);")
	assert.Equal(t, []string{"tex3"}, res.Info.Textures)
	assert.Empty(t, res.Info.UsedExtensions)
}

func TestTranslate_StageAndVersion(t *testing.T) {
	u := loadUnit(t, "sample.json", sampleUnit)
	u.Stage = "vertex"
	u.Version = "460"

	res, err := Translate(u)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Source, "#version 460 core\n"))
	assert.Contains(t, res.Source, "f4_0=textureLod(tex3,f2_0,0.0);")
}

func TestTranslate_Sparse(t *testing.T) {
	u := loadUnit(t, "sparse.json", `{
	  "stage": "compute",
	  "bindings": {"textures": {"1": 0}},
	  "insts": [
	    {"id": 10, "op": "ImageSampleExplicitLod",
	     "texture": {"type": "ColorArray2D", "descriptor": 1},
	     "args": [null, {"f32": 1}, {"f32": 0}, {"s32": -1}]},
	    {"id": 11, "op": "GetSparseFromOp", "args": [{"ref": 10}]}
	  ]
	}`)

	// Each translation lowers a fresh program, so the residency query is
	// available every time.
	for range 2 {
		res, err := Translate(u)
		require.NoError(t, err)
		assert.Contains(t, res.Source,
			"b_0=sparseTexelsResidentARB(sparseTexelFetchOffsetARB(tex0,ivec2(1.0),int(0.0),int(-1),f4_0));")
		assert.Equal(t, []string{"GL_ARB_sparse_texture2"}, res.Info.UsedExtensions)
	}
}

func TestTranslate_QueryDimensions3D(t *testing.T) {
	res, err := Translate(loadUnit(t, "query.json", `{
	  "bindings": {"textures": {"2": 2}},
	  "insts": [
	    {"id": 0, "op": "image_query_dimensions",
	     "texture": {"type": "Color3D", "descriptor": 2},
	     "args": [null, {"u32": 0}]}
	  ]
	}`))
	require.NoError(t, err)
	assert.Contains(t, res.Source, "u4_0=uvec4(uvec3(textureSize(tex2,int(0u))),uint(textureQueryLevels(tex2)));")
}

func TestTranslate_BufferImageWrite(t *testing.T) {
	res, err := Translate(loadUnit(t, "store.json", `{
	  "stage": "compute",
	  "bindings": {"image_buffers": {"0": 1}},
	  "insts": [
	    {"id": 0, "op": "composite_construct_u32x4", "args": [{"u32": 1}, {"u32": 2}, {"u32": 3}, {"u32": 4}]},
	    {"id": 1, "op": "image_write",
	     "texture": {"type": "Buffer", "descriptor": 0},
	     "args": [null, {"u32": 3}, {"ref": 0}]}
	  ]
	}`))
	require.NoError(t, err)
	assert.Contains(t, res.Source, "layout(binding=1) uniform uimageBuffer img1;")
	assert.Contains(t, res.Source, "imageStore(img1,int(3u),u4_0);")
	assert.Equal(t, []string{"img1"}, res.Info.Images)
}

func TestLoadUnit_Errors(t *testing.T) {
	_, err := LoadUnit(strings.NewReader(`{"stage": "fragment", "shader": 1}`))
	assert.Error(t, err)
	_, err = LoadUnit(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown stage",
			doc:  `{"stage": "mesh", "insts": []}`,
			want: "unknown shader stage",
		},
		{
			name: "unknown version",
			doc:  `{"version": "latest", "insts": []}`,
			want: "invalid GLSL version",
		},
		{
			name: "unknown opcode",
			doc:  `{"insts": [{"id": 0, "op": "image_blit", "args": []}]}`,
			want: "unknown opcode",
		},
		{
			name: "forward reference",
			doc:  `{"insts": [{"id": 0, "op": "composite_construct_u32x2", "args": [{"ref": 1}, {"u32": 0}]}]}`,
			want: "undefined id 1",
		},
		{
			name: "ambiguous operand",
			doc:  `{"insts": [{"id": 0, "op": "composite_construct_u32x2", "args": [{"u32": 1, "f32": 1}, {"u32": 0}]}]}`,
			want: "exactly one",
		},
		{
			name: "duplicate id",
			doc: `{"insts": [
			  {"id": 0, "op": "composite_construct_u32x2", "args": [{"u32": 0}, {"u32": 0}]},
			  {"id": 0, "op": "composite_construct_u32x2", "args": [{"u32": 0}, {"u32": 0}]}]}`,
			want: "duplicate id",
		},
		{
			name: "bad texture",
			doc: `{"insts": [{"id": 0, "op": "image_query_lod",
			  "texture": {"type": "Color2D", "descriptor": 0, "gather_component": 5}, "args": [null, {"f32": 0}]}]}`,
			want: "gather component 5 out of range",
		},
		{
			name: "arity",
			doc: `{"insts": [{"id": 0, "op": "image_query_lod",
			  "texture": {"type": "Color2D", "descriptor": 0}, "args": [null]}]}`,
			want: "validation failed",
		},
		{
			name: "missing lod",
			doc: `{"insts": [
			  {"id": 0, "op": "composite_construct_f32x2", "args": [{"f32": 0}, {"f32": 0}]},
			  {"id": 1, "op": "image_sample_explicit_lod",
			   "texture": {"type": "Color2D", "descriptor": 0}, "args": [null, {"ref": 0}, null, null]}]}`,
			want: "(ImageSampleExplicitLod): argument 2 is required",
		},
		{
			name: "missing coords",
			doc: `{"insts": [{"id": 0, "op": "image_sample_implicit_lod",
			  "texture": {"type": "Color2D", "descriptor": 0}, "args": [null, null, null, null]}]}`,
			want: "(ImageSampleImplicitLod): argument 1 is required",
		},
		{
			name: "missing query lod",
			doc: `{"insts": [{"id": 0, "op": "image_query_dimensions",
			  "texture": {"type": "Color2D", "descriptor": 0}, "args": [null, null]}]}`,
			want: "(ImageQueryDimensions): argument 1 is required",
		},
		{
			name: "missing color",
			doc: `{"insts": [{"id": 0, "op": "image_write",
			  "texture": {"type": "Color2D", "descriptor": 0}, "args": [null, {"u32": 0}, null]}]}`,
			want: "(ImageWrite): argument 2 is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Translate(loadUnit(t, tt.name, tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, strings.HasPrefix(err.Error(), tt.name+": "), err.Error())
		})
	}
}

func TestTranslate_BackendErrorKinds(t *testing.T) {
	_, err := Translate(loadUnit(t, "bindless.json", `{
	  "insts": [{"id": 0, "op": "bindless_image_query_lod",
	    "texture": {"type": "Color2D", "descriptor": 0}, "args": [{"u32": 0}, {"f32": 0}]}]
	}`))
	require.Error(t, err)
	assert.True(t, glsl.IsNotImplemented(err))
	assert.Contains(t, err.Error(), "EmitBindlessImageQueryLod")

	_, err = Translate(loadUnit(t, "unbound.json", `{
	  "insts": [{"id": 0, "op": "image_query_lod",
	    "texture": {"type": "Color2D", "descriptor": 4}, "args": [null, {"f32": 0}]}]
	}`))
	require.Error(t, err)
	assert.True(t, glsl.IsMissingBinding(err))
}

func unitsForBatch(t *testing.T, n int) []*Unit {
	t.Helper()
	units := make([]*Unit, n)
	for i := range units {
		units[i] = loadUnit(t, fmt.Sprintf("unit%02d.json", i), sampleUnit)
		if i%2 == 1 {
			units[i].Stage = ir.StageCompute.String()
		}
	}
	return units
}

func TestTranslateAll(t *testing.T) {
	units := unitsForBatch(t, 8)
	results, err := TranslateAll(context.Background(), units, 3)
	require.NoError(t, err)
	require.Len(t, results, len(units))
	for i, r := range results {
		assert.Equal(t, units[i].Name, r.Name)
		if i%2 == 1 {
			assert.Contains(t, r.Source, "textureLod(tex3,f2_0,0.0)")
		} else {
			assert.Contains(t, r.Source, "texture(tex3,f2_0)")
		}
	}
}

func TestTranslateAll_FirstError(t *testing.T) {
	units := unitsForBatch(t, 4)
	units[2].Stage = "mesh"
	results, err := TranslateAll(context.Background(), units, 0)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "unit02.json")
}

func TestTranslateAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := TranslateAll(ctx, unitsForBatch(t, 2), 1)
	require.ErrorIs(t, err, context.Canceled)
}
