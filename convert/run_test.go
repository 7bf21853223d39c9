package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"hdocx/config"
	"hdocx/docx"
	"hdocx/media"
	"hdocx/opc"
	"hdocx/payload"
	"hdocx/state"
)

const sampleBody = `<h1>Title</h1>` +
	`<p>Hello <strong>world</strong> and <a href="https://example.com/?a=1&b=2">link</a></p>` +
	`<img src="fig.png">` +
	`<table><tr><td>a</td><td>b</td></tr></table>`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

func testImage(t *testing.T) media.Image {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for x := range 8 {
		for y := range 4 {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return media.Image{Name: "fig.png", Data: base64.StdEncoding.EncodeToString(buf.Bytes()), MimeType: "image/png"}
}

func samplePayload(t *testing.T, base string) *payload.Payload {
	t.Helper()
	return &payload.Payload{
		BodyHTML:     sampleBody,
		Images:       []media.Image{testImage(t)},
		Data:         payload.Data{Name: base + ".pdf", ID: payload.FlexString(base), Translation: "# Translated title\n\ntext"},
		Tab:          "translation",
		ModeLabel:    "仅译文",
		ExportTime:   payload.Timestamp{Time: exportedAt},
		FileNameBase: base,
	}
}

func writePayload(t *testing.T, dir string, p *payload.Payload) string {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, p.FileNameBase+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func docxFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.docx"))
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func checkPackage(t *testing.T, file string) map[string][]byte {
	t.Helper()
	parts, err := readPackage(file)
	if err != nil {
		t.Fatalf("readPackage() error = %v", err)
	}
	if err := verifyPackage(parts); err != nil {
		t.Errorf("verifyPackage() error = %v", err)
	}
	return parts
}

func TestProcess_JSON(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t)

	src := writePayload(t, t.TempDir(), samplePayload(t, "paper"))
	dst := t.TempDir()

	if err := process(ctx, src, dst, request{}, logger); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	out := filepath.Join(dst, "paper_translation_20240506_070809.docx")
	parts := checkPackage(t, out)

	if _, ok := parts[opc.PartFooter]; !ok {
		t.Error("branded document has no footer")
	}
	var media int
	for name := range parts {
		if strings.HasPrefix(name, opc.MediaDir) {
			media++
		}
	}
	if media != 1 {
		t.Errorf("media parts = %d, want 1", media)
	}
	doc := string(parts[opc.PartDocument])
	for _, want := range []string{"Translated title", "world", "<w:hyperlink", "<w:tbl>", "<w:drawing>"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document does not contain %q", want)
		}
	}
	if !strings.Contains(string(parts[opc.PartCoreProps]), "<dc:title>paper.pdf</dc:title>") {
		t.Errorf("unexpected core properties: %s", parts[opc.PartCoreProps])
	}
}

func TestProcess_ExplicitNameAndImages(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t)

	p := samplePayload(t, "paper")
	p.Images = nil
	src := writePayload(t, t.TempDir(), p)
	dst := t.TempDir()

	err := process(ctx, src, dst, request{name: "result", images: []media.Image{testImage(t)}}, logger)
	if err != nil {
		t.Fatalf("process() error = %v", err)
	}
	parts := checkPackage(t, filepath.Join(dst, "result.docx"))
	if !strings.Contains(string(parts[opc.PartDocument]), "<w:drawing>") {
		t.Error("image from collateral directory was not embedded")
	}
}

func TestProcess_HTML(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Document.Intro.Enable = false
	env.Cfg.Document.Branding = false
	logger := zaptest.NewLogger(t)

	src := filepath.Join(t.TempDir(), "notes.html")
	if err := os.WriteFile(src, []byte("<html><body><p>Plain notes</p></body></html>"), 0644); err != nil {
		t.Fatal(err)
	}
	dst := t.TempDir()

	if err := process(ctx, src, dst, request{}, logger); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	files := docxFiles(t, dst)
	if len(files) != 1 || !strings.HasPrefix(filepath.Base(files[0]), "notes_export_") {
		t.Fatalf("unexpected output %v", files)
	}
	parts := checkPackage(t, files[0])
	if _, ok := parts[opc.PartFooter]; ok {
		t.Error("footer present without branding")
	}
	if !strings.Contains(string(parts[opc.PartDocument]), "Plain notes") {
		t.Error("document text missing")
	}
}

func createHistory(t *testing.T, records map[string]*payload.Payload) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		t.Fatalf("unable to create database: %v", err)
	}
	defer conn.Close()

	if err := sqlitex.ExecuteTransient(conn, payload.Schema, nil); err != nil {
		t.Fatalf("unable to create schema: %v", err)
	}
	for id, p := range records {
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatal(err)
		}
		err = sqlitex.Execute(conn, `INSERT INTO records (id, payload) VALUES (?, ?)`,
			&sqlitex.ExecOptions{Args: []any{id, string(data)}})
		if err != nil {
			t.Fatalf("unable to insert record: %v", err)
		}
	}
	return path
}

func TestProcess_Database(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t)

	db := createHistory(t, map[string]*payload.Payload{
		"r1": samplePayload(t, "first"),
		"r2": samplePayload(t, "second"),
	})

	t.Run("all records", func(t *testing.T) {
		dst := t.TempDir()
		if err := process(ctx, db, dst, request{name: "ignored"}, logger); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		files := docxFiles(t, dst)
		if len(files) != 2 {
			t.Fatalf("converted %d records, want 2: %v", len(files), files)
		}
		for _, f := range files {
			checkPackage(t, f)
		}
	})

	t.Run("single record", func(t *testing.T) {
		dst := t.TempDir()
		if err := process(ctx, db, dst, request{record: "r2", name: "only"}, logger); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		checkPackage(t, filepath.Join(dst, "only.docx"))
	})

	t.Run("missing record", func(t *testing.T) {
		err := process(ctx, db, t.TempDir(), request{record: "nope"}, logger)
		if !errors.Is(err, payload.ErrNoRecord) {
			t.Errorf("process() error = %v, want ErrNoRecord", err)
		}
	})
}

func TestProcess_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)
	logger := zaptest.NewLogger(t)

	src := writePayload(t, t.TempDir(), samplePayload(t, "paper"))
	dst := t.TempDir()

	if err := process(ctx, src, dst, request{name: "out"}, logger); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	err := process(ctx, src, dst, request{name: "out"}, logger)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second process() error = %v, want already exists", err)
	}

	env.Overwrite = true
	env.Cfg.Output.FixZip = true
	if err := process(ctx, src, dst, request{name: "out"}, logger); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
	checkPackage(t, filepath.Join(dst, "out.docx"))
}

func TestProcess_NonExistentPath(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t)

	err := process(ctx, "/nonexistent/path/payload.json", t.TempDir(), request{}, logger)
	if err == nil || !strings.Contains(err.Error(), "input source was not found") {
		t.Errorf("process() error = %v, want input source was not found", err)
	}
}

func TestProcess_Directory(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t)

	dir := t.TempDir()
	if err := process(ctx, dir, dir, request{}, logger); err == nil {
		t.Error("process() of directory succeeded")
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	tmpDir := t.TempDir()
	err := process(cancelCtx, filepath.Join(tmpDir, "x.json"), tmpDir, request{}, zaptest.NewLogger(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestProcess_StrictValidation(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Validation.Strict = true
	logger := zaptest.NewLogger(t)

	src := writePayload(t, t.TempDir(), samplePayload(t, "paper"))
	if err := process(ctx, src, t.TempDir(), request{}, logger); err != nil {
		t.Errorf("process() of valid document in strict mode error = %v", err)
	}
}

func TestSavePackage_KeepsExistingOnFailure(t *testing.T) {
	_, env := setupTestEnv(t)
	env.Cfg.Validation.ValidateXML = true
	env.Cfg.Validation.Strict = true
	logger := zaptest.NewLogger(t)

	outputName := filepath.Join(t.TempDir(), "out.docx")
	if err := os.WriteFile(outputName, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	broken := &docx.Result{Document: "<w:document><w:body></w:body></w:document>"}
	if err := savePackage(broken, opc.Properties{}, outputName, true, env, logger); err == nil {
		t.Fatal("savePackage() of invalid document succeeded in strict mode")
	}
	data, err := os.ReadFile(outputName)
	if err != nil {
		t.Fatalf("existing output was removed: %v", err)
	}
	if string(data) != "previous" {
		t.Errorf("existing output was changed: %q", data)
	}
}

func TestSavePackage_ReplacesExisting(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Validation.Strict = true
	logger := zaptest.NewLogger(t)

	src := writePayload(t, t.TempDir(), samplePayload(t, "paper"))
	dst := t.TempDir()
	outputName := filepath.Join(dst, "out.docx")
	if err := os.WriteFile(outputName, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	env.Overwrite = true
	if err := process(ctx, src, dst, request{name: "out"}, logger); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
	checkPackage(t, outputName)
}

func TestProperties(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	props := properties(&payload.Payload{}, now)
	if props.Title != defaultTitle || !props.Created.Equal(now) || props.Creator != appTitle {
		t.Errorf("unexpected default properties %+v", props)
	}

	props = properties(samplePayload(t, "paper"), now)
	if props.Title != "paper.pdf" || !props.Created.Equal(exportedAt) {
		t.Errorf("unexpected properties %+v", props)
	}
}

func TestIntroOf(t *testing.T) {
	in := introOf(samplePayload(t, "paper"))
	if in.Name != "paper.pdf" || in.RecordID != "paper" || in.ModeLabel != "仅译文" || !in.ExportedAt.Equal(exportedAt) {
		t.Errorf("unexpected intro %+v", in)
	}
	if in.Title("fallback") != "Translated title" {
		t.Errorf("Title() = %q", in.Title("fallback"))
	}
}
