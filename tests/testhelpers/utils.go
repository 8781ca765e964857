package testhelpers

import (
	"os/exec"
	"path/filepath"
)

// BuildBinary compiles ./binaries/<name> into dir and returns its path.
// Must be run from the repository root.
func BuildBinary(dir, name string) (string, error) {
	out := filepath.Join(dir, name)
	cmd := exec.Command("go", "build", "-o", out, "./binaries/"+name)
	return out, cmd.Run()
}
