package shader

import (
	"fmt"
	"io/fs"
	"os"
)

// ReadSources reads a vertex and fragment shader pair from fsys.
func ReadSources(fsys fs.FS, vertPath, fragPath string) (vert, frag string, err error) {
	v, err := fs.ReadFile(fsys, vertPath)
	if err != nil {
		return "", "", fmt.Errorf("read vertex shader: %w", err)
	}
	f, err := fs.ReadFile(fsys, fragPath)
	if err != nil {
		return "", "", fmt.Errorf("read fragment shader: %w", err)
	}
	return string(v), string(f), nil
}

// LoadProgram compiles the shader pair stored at the given file paths.
func LoadProgram(vertPath, fragPath string) (*Program, error) {
	vert, err := os.ReadFile(vertPath)
	if err != nil {
		return nil, fmt.Errorf("read vertex shader: %w", err)
	}
	frag, err := os.ReadFile(fragPath)
	if err != nil {
		return nil, fmt.Errorf("read fragment shader: %w", err)
	}
	return CompileProgram(string(vert), string(frag))
}

// LoadProgramFS compiles the shader pair stored in fsys, typically an
// embedded filesystem.
func LoadProgramFS(fsys fs.FS, vertPath, fragPath string) (*Program, error) {
	vert, frag, err := ReadSources(fsys, vertPath, fragPath)
	if err != nil {
		return nil, err
	}
	return CompileProgram(vert, frag)
}
