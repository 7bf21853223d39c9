package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	IntroConfig struct {
		Enable        bool   `yaml:"enable"`
		FallbackTitle string `yaml:"fallback_title" validate:"required"`
	}

	MathConfig struct {
		Mode         MathMode `yaml:"mode" validate:"gte=0"`
		TranscodeTeX bool     `yaml:"transcode_tex"`
	}

	ImagesConfig struct {
		Normalize    bool `yaml:"normalize"`
		RasterizeSVG bool `yaml:"rasterize_svg"`
		JPEGQuality  int  `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
		DefaultWidth int  `yaml:"default_width" validate:"min=16,max=4096"`
		MaxWidth     int  `yaml:"max_width" validate:"min=16,max=4096"`
	}

	DocumentConfig struct {
		Branding  bool         `yaml:"branding"`
		BrandText string       `yaml:"brand_text" validate:"required_if=Branding true"`
		BrandLink string       `yaml:"brand_link" validate:"omitempty,url"`
		Intro     IntroConfig  `yaml:"intro"`
		MaxWidth  int          `yaml:"max_width_twips" validate:"min=1440,max=15840"`
		Math      MathConfig   `yaml:"math"`
		Images    ImagesConfig `yaml:"images"`
	}

	InputConfig struct {
		Charset string `yaml:"charset"`
	}

	ValidationConfig struct {
		ValidateXML bool `yaml:"validate_xml"`
		Strict      bool `yaml:"strict"`
	}

	OutputConfig struct {
		NameTemplate  string `yaml:"name_template"`
		Transliterate bool   `yaml:"transliterate"`
		Overwrite     bool   `yaml:"overwrite"`
		FixZip        bool   `yaml:"fix_zip"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Document   DocumentConfig   `yaml:"document"`
		Input      InputConfig      `yaml:"input"`
		Validation ValidationConfig `yaml:"validation"`
		Output     OutputConfig     `yaml:"output"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

// NOTE: must match yaml field name above.
const NameTemplateFieldName TemplateFieldName = "name_template"

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(NameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitization failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
