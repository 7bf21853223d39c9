package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	fixzip "github.com/hidez8891/zip"
)

var (
	ErrNoWriter      = errors.New("no archive writer")
	ErrDuplicatePart = errors.New("part already written")
	ErrUnsafeName    = errors.New("unsafe part name")
)

// PartWriter receives named package parts. Names are relative to package
// root and use forward slashes.
type PartWriter interface {
	WriteText(name, data string) error
	WriteBinary(name string, data []byte) error
	Close() error
}

// ZipWriter stores parts into zip archive. Text parts are compressed, binary
// ones (already compressed images) are stored as is.
type ZipWriter struct {
	zw    *zip.Writer
	names map[string]struct{}
}

func NewZipWriter(w io.Writer) *ZipWriter {
	return &ZipWriter{zw: zip.NewWriter(w), names: make(map[string]struct{})}
}

func (z *ZipWriter) WriteText(name, data string) error {
	return z.write(name, zip.Deflate, []byte(data))
}

func (z *ZipWriter) WriteBinary(name string, data []byte) error {
	return z.write(name, zip.Store, data)
}

func (z *ZipWriter) write(name string, method uint16, data []byte) error {
	if !isSafePath(name) || path.Clean(name) != name {
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	if _, ok := z.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePart, name)
	}
	z.names[name] = struct{}{}

	w, err := z.zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: method,
	})
	if err != nil {
		return fmt.Errorf("unable to create part %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("unable to write part %s: %w", name, err)
	}
	return nil
}

// Close flushes central directory. It does not close underlying writer.
func (z *ZipWriter) Close() error {
	return z.zw.Close()
}

// Len returns number of parts written so far.
func (z *ZipWriter) Len() int {
	return len(z.names)
}

// CopyWithoutDataDescriptors rewrites archive clearing data descriptor flag
// on every entry, some readers do not handle descriptors well.
func CopyWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to finalize target file (%s): %w", to, err)
	}
	return out.Close()
}

// CopyFile copies src to dst overwriting it.
func CopyFile(src, dst string) error {

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destinationFile.Close()

	if _, err = io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err = destinationFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}

// IsXMLPart reports package parts holding XML.
func IsXMLPart(name string) bool {
	return strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels")
}
