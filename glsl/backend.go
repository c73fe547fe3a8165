// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/recomp/ir"
)

// Version represents a GLSL version.
type Version struct {
	Major uint8
	Minor uint8
	ES    bool // true for GLSL ES (OpenGL ES / WebGL)
}

// Common GLSL versions.
var (
	// Desktop OpenGL versions
	Version430 = Version{Major: 4, Minor: 30, ES: false} // OpenGL 4.3 (textureQueryLevels)
	Version450 = Version{Major: 4, Minor: 50, ES: false} // OpenGL 4.5
	Version460 = Version{Major: 4, Minor: 60, ES: false} // OpenGL 4.6

	// OpenGL ES versions
	VersionES320 = Version{Major: 3, Minor: 20, ES: true} // ES 3.2
)

// String returns the version as a GLSL version directive value.
func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("%d%02d es", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d%02d core", v.Major, v.Minor)
}

// VersionNumber returns just the numeric version (e.g., "450", "320").
func (v Version) VersionNumber() string {
	return fmt.Sprintf("%d%02d", v.Major, v.Minor)
}

// ParseVersion parses a numeric version such as "450" or "320 es".
func ParseVersion(s string) (Version, error) {
	var number int
	var suffix string
	n, err := fmt.Sscanf(s, "%d %s", &number, &suffix)
	if n == 0 {
		return Version{}, fmt.Errorf("invalid GLSL version %q: %w", s, err)
	}
	if number < 100 || number > 999 {
		return Version{}, fmt.Errorf("invalid GLSL version %q", s)
	}
	return Version{
		Major: uint8(number / 100), //nolint:gosec // G115: bounded above
		Minor: uint8(number % 100), //nolint:gosec // G115: bounded above
		ES:    suffix == "es",
	}, nil
}

// Profile describes the driver capabilities the backend may rely on.
type Profile struct {
	// SupportTextureShadowLod reports GL_EXT_texture_shadow_lod, needed for
	// explicit-LOD depth comparison on array and cube textures.
	SupportTextureShadowLod bool
}

// Bindings maps descriptor indices to binding slots. The tables are filled
// during pipeline setup and are read-only during emission.
type Bindings struct {
	Textures       map[uint32]uint32
	TextureBuffers map[uint32]uint32
	Images         map[uint32]uint32
	ImageBuffers   map[uint32]uint32
}

// Options configures GLSL code generation.
type Options struct {
	// LangVersion is the target GLSL version.
	// Defaults to Version450 if zero.
	LangVersion Version

	// Stage selects stage-specific code paths (implicit derivatives are
	// only available to fragment shaders).
	Stage ir.Stage

	// Profile describes the available driver extensions.
	Profile Profile

	// Bindings resolves descriptor indices to resource names.
	Bindings Bindings

	// Logger receives warnings about approximated translations.
	// If nil, the package logger set by SetLogger is used.
	Logger *slog.Logger
}

// DefaultOptions returns sensible default options for GLSL generation.
func DefaultOptions() Options {
	return Options{
		LangVersion: Version450,
		Stage:       ir.StageFragment,
		Profile: Profile{
			SupportTextureShadowLod: true,
		},
	}
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo struct {
	// UsedExtensions lists GLSL extensions required by the shader, in
	// order of first use.
	UsedExtensions []string

	// Textures lists the declared sampler names (e.g., "tex3").
	Textures []string

	// Images lists the declared storage image names (e.g., "img0").
	Images []string
}

// Compile generates a GLSL program from an IR program.
// Translation is all-or-nothing: on error no source is returned.
// Compile takes the residency queries attached to sparse instructions, so
// a program holding sparse operations can be compiled only once.
func Compile(program *ir.Program, options Options) (string, TranslationInfo, error) {
	// Apply defaults for zero values
	if options.LangVersion.Major == 0 {
		options.LangVersion = Version450
	}

	ctx := NewContext(options)
	for _, inst := range program.Insts() {
		if err := ctx.EmitInst(inst); err != nil {
			return "", TranslationInfo{}, fmt.Errorf("glsl: %s: %w", inst, err)
		}
	}

	w := newWriter(ctx)
	if err := w.writeProgram(); err != nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", err)
	}

	info := TranslationInfo{
		UsedExtensions: ctx.Extensions(),
		Textures:       w.textureNames,
		Images:         w.imageNames,
	}

	return w.String(), info, nil
}
