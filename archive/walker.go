// Package archive writes document packages and walks existing ones, both on
// top of "archive/zip".
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"path"
	"strings"
)

// WalkFunc is called by Walk for every part of the package. The pkg argument
// is the package path passed to Walk. If an error is returned, walking stops
// and Walk returns that error.
type WalkFunc func(pkg string, part *zip.File) error

// Walk visits package parts in archive order, calling walkFn for every part
// whose name starts with prefix. Directory entries are not parts and are not
// visited. Part names which are absolute or contain ".." make Walk fail with
// ErrUnsafeName, so a hostile package never reaches walkFn with such name.
func Walk(pkg, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(pkg)
	if errors.Is(err, zip.ErrInsecurePath) {
		if r != nil {
			r.Close()
		}
		return fmt.Errorf("%w: %v", ErrUnsafeName, err)
	}
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("%w: %q in %s", ErrUnsafeName, name, pkg)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(pkg, f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath reports part names which stay inside the package: relative,
// without ".." segments and without backslash rooted Windows paths.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
