// Package atomicfile replaces files through a temporary sibling and a
// rename, so a failed or interrupted write never leaves the destination
// truncated.
package atomicfile

import (
	"io"
	"os"
	"path/filepath"
)

// Replace writes a file by streaming write into a temporary file in the
// destination's directory and renaming it over path. On any failure the
// temporary file is removed and the destination keeps its prior content.
func Replace(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
