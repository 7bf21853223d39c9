package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
document:
  branding: false
  max_width_twips: 8000
  math:
    mode: text
    transcode_tex: false
  images:
    jpeg_quality_level: 70
validation:
  strict: true
output:
  fix_zip: true
  name_template: "{{ .Title }}"
logging:
  console:
    level: debug
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Document.Branding {
		t.Error("Expected Branding to be false")
	}
	if cfg.Document.MaxWidth != 8000 {
		t.Errorf("MaxWidth = %d, want 8000", cfg.Document.MaxWidth)
	}
	if cfg.Document.Math.Mode != MathModeText {
		t.Errorf("Math.Mode = %v, want text", cfg.Document.Math.Mode)
	}
	if cfg.Document.Images.JPEGQuality != 70 {
		t.Errorf("JPEGQuality = %d, want 70", cfg.Document.Images.JPEGQuality)
	}
	if !cfg.Validation.Strict {
		t.Error("Expected Strict to be true")
	}
	if !cfg.Output.FixZip {
		t.Error("Expected FixZip to be true")
	}
	if cfg.Output.NameTemplate != "{{ .Title }}" {
		t.Errorf("NameTemplate = %q, want it unexpanded", cfg.Output.NameTemplate)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("FileLogger.Mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "invalid yaml",
			content: `version: 1
document:
  branding: true
  invalid indent
`,
		},
		{
			name: "unknown field",
			content: `version: 1
unknown_field: value
`,
		},
		{
			name:    "wrong version",
			content: "version: 2\n",
		},
		{
			name: "unknown math mode",
			content: `version: 1
document:
  math:
    mode: mathjax
`,
		},
		{
			name: "max width out of range",
			content: `version: 1
document:
  max_width_twips: 100
`,
		},
		{
			name: "jpeg quality out of range",
			content: `version: 1
document:
  images:
    jpeg_quality_level: 10
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}

	cfg := &Config{}
	if _, err = unmarshalConfig(data, cfg, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
	if !strings.Contains(string(data), "{{ .FileNameBase }}") {
		t.Error("name_template must survive template processing unexpanded")
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Document.Math.Mode = MathModeText

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "mode: text") {
		t.Errorf("Dump() should render enum as text, got:\n%s", data)
	}

	cfg2 := &Config{}
	if _, err = unmarshalConfig(data, cfg2, false); err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Document.Math.Mode != MathModeText {
		t.Errorf("Math.Mode after reload = %v, want text", cfg2.Document.Math.Mode)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Document.Branding {
		t.Error("branding must be on by default")
	}
	if cfg.Document.MaxWidth != 9360 {
		t.Errorf("MaxWidth = %d, want 9360", cfg.Document.MaxWidth)
	}
	if cfg.Document.Images.DefaultWidth != 680 || cfg.Document.Images.MaxWidth != 680 {
		t.Errorf("image widths = %d/%d, want 680/680", cfg.Document.Images.DefaultWidth, cfg.Document.Images.MaxWidth)
	}
	if !cfg.Validation.ValidateXML || cfg.Validation.Strict {
		t.Error("expected XML validation on and strict mode off by default")
	}
	if cfg.Document.Math.Mode != MathModeOmml {
		t.Errorf("Math.Mode = %v, want omml", cfg.Document.Math.Mode)
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")

	partialConfig := `version: 1
output:
  transliterate: true
`
	if err := os.WriteFile(configPath, []byte(partialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if !cfg.Output.Transliterate {
		t.Error("Expected Transliterate to be true from config file")
	}
	if cfg.Document.Intro.FallbackTitle == "" {
		t.Error("FallbackTitle should keep default value")
	}
}

func TestMathMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MathMode
		wantErr bool
	}{
		{"omml", MathModeOmml, false},
		{"text", MathModeText, false},
		{"TEXT", MathModeText, false},
		{"latex", MathModeOmml, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMathMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMathMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidMathMode) {
					t.Errorf("expected ErrInvalidMathMode, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseMathMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if s := MathMode(7).String(); s != "MathMode(7)" {
		t.Errorf("String() for invalid value = %q", s)
	}
	if names := MathModeNames(); len(names) != 2 {
		t.Errorf("MathModeNames() = %v", names)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	data := []byte("version: 99\n")

	_, err := unmarshalConfig(data, &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}
