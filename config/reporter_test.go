package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Close(t *testing.T) {
	dir := t.TempDir()

	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	stored := filepath.Join(dir, "stored.log")
	if err := os.WriteFile(stored, []byte("late content"), 0644); err != nil {
		t.Fatal(err)
	}
	copied := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(copied, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("final.log", stored)
	r.StoreData("document.xml", []byte("<w:document/>"))
	if err := r.StoreCopy("source/payload.json", copied); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	// copy must not see changes made after the call
	if err := os.WriteFile(copied, []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	r.Store("missing.log", filepath.Join(dir, "absent.log"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readReport(t, conf.Destination)
	if files["final.log"] != "late content" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	if files["document.xml"] != "<w:document/>" {
		t.Errorf("document.xml = %q", files["document.xml"])
	}
	if files["source/payload.json"] != "original" {
		t.Errorf("source/payload.json = %q, want content at the time of the call", files["source/payload.json"])
	}
	if _, ok := files["missing.log"]; ok {
		t.Error("absent files must be skipped")
	}
	manifest := files["MANIFEST"]
	for _, name := range []string{"final.log", "document.xml", "source/payload.json"} {
		if !strings.Contains(manifest, name) {
			t.Errorf("MANIFEST does not mention %s:\n%s", name, manifest)
		}
	}
}

func TestReport_StoreDataTwicePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("a", []byte("1"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on overwrite")
		}
	}()
	r.StoreData("a", []byte("2"))
}

func TestReport_NilSafe(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "b"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Error("Name on nil report should be empty")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
