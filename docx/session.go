// Package docx converts classified content tree into WordprocessingML
// document and collects everything the package needs alongside it: media
// files, relationships, footer.
package docx

import (
	"errors"

	"go.uber.org/zap"

	"hdocx/config"
	"hdocx/media"
	"hdocx/omml"
	"hdocx/opc"
)

var ErrSessionUsed = errors.New("conversion session was already used")

// MediaFile is image embedded into package under word/media.
type MediaFile struct {
	Name string
	Data []byte
}

// Session holds all mutable state of single conversion: relationship,
// image and drawing counters, embedded media and failure count. Session
// converts one document and must not be shared.
type Session struct {
	cfg    *config.DocumentConfig
	log    *zap.Logger
	strict bool
	intro  *Intro

	images   *media.Registry
	limits   media.Limits
	mathConv omml.Converter
	formulas omml.Chain

	rels        *opc.Relationships
	embedded    map[*media.Asset]string
	media       []MediaFile
	exts        []string
	nextImage   int
	nextDrawing int
	failures    int
	used        bool
}

type Option func(*Session)

// WithMathConverter replaces built-in MathML mapper.
func WithMathConverter(conv omml.Converter) Option {
	return func(s *Session) {
		s.mathConv = conv
	}
}

// WithIntro requests title card at the beginning of the document.
func WithIntro(in Intro) Option {
	return func(s *Session) {
		s.intro = &in
	}
}

// WithStrict makes session check every produced block for illegal
// characters.
func WithStrict(strict bool) Option {
	return func(s *Session) {
		s.strict = strict
	}
}

// NewSession prepares conversion: image collateral is decoded and indexed
// and formula conversion chain is selected according to configuration.
func NewSession(cfg *config.DocumentConfig, images []media.Image, log *zap.Logger, opts ...Option) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		cfg:         cfg,
		log:         log,
		limits:      media.Limits{DefaultWidth: cfg.Images.DefaultWidth, MaxWidth: cfg.Images.MaxWidth},
		rels:        opc.NewRelationships(),
		embedded:    make(map[*media.Asset]string),
		nextImage:   1,
		nextDrawing: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	var regOpts []media.Option
	if cfg.Images.Normalize {
		regOpts = append(regOpts, media.WithNormalizer(func(a *media.Asset) *media.Asset {
			return media.Normalize(a, &cfg.Images, log)
		}))
	}
	s.images = media.NewRegistry(images, log, regOpts...)

	if cfg.Math.Mode == config.MathModeText {
		s.formulas = omml.TextChain()
	} else {
		s.formulas = omml.DefaultChain(s.mathConv, cfg.Math.TranscodeTeX)
	}
	return s
}
