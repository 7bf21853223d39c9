package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func readZip(t *testing.T, data []byte) map[string]*zip.File {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("unable to open written archive: %v", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return files
}

func TestZipWriter(t *testing.T) {
	var buf bytes.Buffer
	zw := NewZipWriter(&buf)

	if err := zw.WriteText("word/document.xml", "<w:document/>"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if err := zw.WriteBinary("word/media/image1.png", []byte{0x89, 'P', 'N', 'G'}); err != nil {
		t.Fatalf("WriteBinary() error = %v", err)
	}
	if zw.Len() != 2 {
		t.Errorf("Len() = %d, want 2", zw.Len())
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readZip(t, buf.Bytes())
	doc, ok := files["word/document.xml"]
	if !ok {
		t.Fatal("document part missing")
	}
	if doc.Method != zip.Deflate {
		t.Errorf("text part method = %d, want deflate", doc.Method)
	}
	rc, err := doc.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	content, _ := io.ReadAll(rc)
	if string(content) != "<w:document/>" {
		t.Errorf("document content = %q", content)
	}
	if img := files["word/media/image1.png"]; img == nil || img.Method != zip.Store {
		t.Errorf("binary part should be stored: %+v", img)
	}
}

func TestZipWriter_Rejects(t *testing.T) {
	zw := NewZipWriter(io.Discard)
	defer zw.Close()

	if err := zw.WriteText("a.xml", "x"); err != nil {
		t.Fatal(err)
	}
	if err := zw.WriteText("a.xml", "y"); !errors.Is(err, ErrDuplicatePart) {
		t.Errorf("duplicate part error = %v", err)
	}
	for _, name := range []string{"../evil.xml", "/root.xml", "word/../x.xml", "word//x.xml", ""} {
		if err := zw.WriteText(name, "x"); !errors.Is(err, ErrUnsafeName) {
			t.Errorf("WriteText(%q) error = %v, want ErrUnsafeName", name, err)
		}
	}
}

func TestCopyWithoutDataDescriptors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.docx")
	dst := filepath.Join(dir, "dst.docx")

	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	zw := NewZipWriter(f)
	if err := zw.WriteText("[Content_Types].xml", "<Types/>"); err != nil {
		t.Fatal(err)
	}
	if err := zw.WriteText("word/document.xml", "<w:document/>"); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := CopyWithoutDataDescriptors(src, dst); err != nil {
		t.Fatalf("CopyWithoutDataDescriptors() error = %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	files := readZip(t, data)
	if len(files) != 2 {
		t.Fatalf("copied %d parts, want 2", len(files))
	}
	for name, f := range files {
		if f.Flags&0x8 != 0 {
			t.Errorf("part %s still has data descriptor", name)
		}
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dst := filepath.Join(dir, "b")
	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	if got, _ := os.ReadFile(dst); string(got) != "payload" {
		t.Errorf("copied = %q", got)
	}
	if err := CopyFile(filepath.Join(dir, "missing"), dst); err == nil {
		t.Error("CopyFile() of missing source succeeded")
	}
}

func TestIsXMLPart(t *testing.T) {
	for name, want := range map[string]bool{
		"word/document.xml":            true,
		"_rels/.rels":                  true,
		"word/_rels/document.xml.rels": true,
		"word/media/image1.png":        false,
	} {
		if got := IsXMLPart(name); got != want {
			t.Errorf("IsXMLPart(%q) = %v", name, got)
		}
	}
}
