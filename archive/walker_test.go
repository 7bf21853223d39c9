package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type part struct {
	name   string
	data   string
	binary bool
}

var docxParts = []part{
	{name: "[Content_Types].xml", data: `<?xml version="1.0"?><Types/>`},
	{name: "_rels/.rels", data: `<?xml version="1.0"?><Relationships/>`},
	{name: "word/document.xml", data: `<?xml version="1.0"?><w:document/>`},
	{name: "word/_rels/document.xml.rels", data: `<?xml version="1.0"?><Relationships/>`},
	{name: "word/media/image1.png", data: "\x89PNG", binary: true},
	{name: "word/media/image2.jpeg", data: "\xff\xd8\xff", binary: true},
}

// writeTestPackage stores parts with ZipWriter the same way converted
// documents are written.
func writeTestPackage(t *testing.T, parts []part) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("Failed to create package: %v", err)
	}
	defer f.Close()

	zw := NewZipWriter(f)
	for _, p := range parts {
		if p.binary {
			err = zw.WriteBinary(p.name, []byte(p.data))
		} else {
			err = zw.WriteText(p.name, p.data)
		}
		if err != nil {
			t.Fatalf("Failed to write part %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finalize package: %v", err)
	}
	return name
}

// writeRawZip bypasses ZipWriter name checks to produce hostile archives.
func writeRawZip(t *testing.T, names ...string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "raw.zip")
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("Failed to create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, n := range names {
		fw, err := w.Create(n)
		if err != nil {
			t.Fatalf("Failed to create entry %s: %v", n, err)
		}
		if strings.HasSuffix(n, "/") {
			continue
		}
		if _, err := fw.Write([]byte("<x/>")); err != nil {
			t.Fatalf("Failed to write entry %s: %v", n, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	return name
}

func walkNames(t *testing.T, pkg, prefix string) []string {
	t.Helper()
	var visited []string
	err := Walk(pkg, prefix, func(got string, f *zip.File) error {
		if got != pkg {
			t.Errorf("package = %s, want %s", got, pkg)
		}
		visited = append(visited, f.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk(%q) error = %v", prefix, err)
	}
	return visited
}

func TestWalk(t *testing.T) {
	pkg := writeTestPackage(t, docxParts)

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{
			"[Content_Types].xml",
			"_rels/.rels",
			"word/document.xml",
			"word/_rels/document.xml.rels",
			"word/media/image1.png",
			"word/media/image2.jpeg",
		}},
		{"word/media/", []string{"word/media/image1.png", "word/media/image2.jpeg"}},
		{"word/_rels/", []string{"word/_rels/document.xml.rels"}},
		{"_rels/", []string{"_rels/.rels"}},
		{"Word/", nil},
		{"customXml/", nil},
	}

	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			got := walkNames(t, pkg, tt.prefix)
			if !slices.Equal(got, tt.want) {
				t.Errorf("visited %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalk_PartContent(t *testing.T) {
	pkg := writeTestPackage(t, docxParts)

	err := Walk(pkg, "", func(_ string, f *zip.File) error {
		r, err := f.Open()
		if err != nil {
			return err
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(docxParts, func(p part) bool { return p.name == f.Name })
		if i < 0 {
			t.Errorf("unexpected part %s", f.Name)
			return nil
		}
		want := docxParts[i]
		if string(data) != want.data {
			t.Errorf("part %s content = %q, want %q", f.Name, data, want.data)
		}
		method := zip.Deflate
		if want.binary {
			method = zip.Store
		}
		if f.Method != method {
			t.Errorf("part %s method = %d, want %d", f.Name, f.Method, method)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
}

func TestWalk_UnsafeNames(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"parent traversal", "../evil.xml"},
		{"nested traversal", "word/../../evil.xml"},
		{"absolute", "/word/document.xml"},
		{"windows rooted", `\word\document.xml`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := writeRawZip(t, "word/document.xml", tt.entry)
			var visited []string
			err := Walk(pkg, "", func(_ string, f *zip.File) error {
				visited = append(visited, f.Name)
				return nil
			})
			if !errors.Is(err, ErrUnsafeName) {
				t.Errorf("Walk() error = %v, want ErrUnsafeName", err)
			}
			if slices.Contains(visited, tt.entry) {
				t.Errorf("unsafe entry %q reached walk function", tt.entry)
			}
		})
	}
}

func TestWalk_SkipsDirectories(t *testing.T) {
	pkg := writeRawZip(t, "word/", "word/media/", "word/document.xml", "word/media/image1.png")

	got := walkNames(t, pkg, "word/")
	want := []string{"word/document.xml", "word/media/image1.png"}
	if !slices.Equal(got, want) {
		t.Errorf("visited %v, want %v", got, want)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	pkg := writeTestPackage(t, docxParts)
	stop := errors.New("stop")

	count := 0
	err := Walk(pkg, "word/", func(_ string, _ *zip.File) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk() error = %v, want %v", err, stop)
	}
	if count != 2 {
		t.Errorf("walk function called %d times, want 2", count)
	}
}

func TestWalk_InvalidPackage(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk(filepath.Join(t.TempDir(), "missing.docx"), "", func(string, *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent package")
		}
	})

	t.Run("not a zip", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "broken.docx")
		if err := os.WriteFile(name, []byte("<w:document/>"), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
		err := Walk(name, "", func(string, *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for file which is not a zip archive")
		}
	})
}
