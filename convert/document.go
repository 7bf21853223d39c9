package convert

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"hdocx/archive"
	"hdocx/content"
	"hdocx/docx"
	"hdocx/misc"
	"hdocx/opc"
	"hdocx/payload"
	"hdocx/state"
)

const (
	appTitle     = "PaperBurner X"
	defaultTitle = "PaperBurner X 导出"
)

// buildDocument runs conversion session over prepared content.
func buildDocument(ctx context.Context, c *content.Content, p *payload.Payload, env *state.LocalEnv, log *zap.Logger) (*docx.Result, error) {
	cfg := &env.Cfg.Document

	opts := []docx.Option{docx.WithStrict(env.Cfg.Validation.Strict)}
	if cfg.Intro.Enable {
		opts = append(opts, docx.WithIntro(introOf(p)))
	}

	res, err := docx.NewSession(cfg, p.AllImages(), log, opts...).Build(ctx, c.Root)
	if err != nil {
		return nil, fmt.Errorf("unable to build document (%s): %w", c.SrcName, err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("document.xml", []byte(res.Document))
	}
	return res, nil
}

func introOf(p *payload.Payload) docx.Intro {
	return docx.Intro{
		Name:        p.Data.Name,
		RecordID:    string(p.Data.ID),
		ModeLabel:   p.ModeLabel,
		ExportedAt:  p.ExportTime.Time,
		Translation: p.TranslationMarkdown(),
		OCR:         p.OCRMarkdown(),
	}
}

// properties prepares package metadata, "now" is used when payload does not
// know when export was requested.
func properties(p *payload.Payload, now time.Time) opc.Properties {
	props := opc.Properties{
		Title:       strings.TrimSpace(p.Data.Name),
		Creator:     appTitle,
		Application: appTitle,
		Created:     p.ExportTime.Time,
	}
	if len(props.Title) == 0 {
		props.Title = defaultTitle
	}
	if props.Created.IsZero() {
		props.Created = now
	}
	return props
}

// savePackage validates document and writes it to outputName. Existing file
// is removed only when new package is about to be written.
func savePackage(res *docx.Result, props opc.Properties, outputName string, replace bool, env *state.LocalEnv, log *zap.Logger) error {
	if err := validate(res, env, log); err != nil {
		return err
	}
	if replace {
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err := os.Remove(outputName); err != nil {
			return err
		}
	}
	if err := writePackage(res, props, outputName, env.Cfg.Output.FixZip); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}
	return nil
}

// writePackage writes complete package to temporary file first and then
// copies it to destination, optionally rewriting archive without data
// descriptors.
func writePackage(res *docx.Result, props opc.Properties, outputName string, fixZip bool) error {
	tmp, err := os.CreateTemp("", misc.GetAppName()+"-*.docx")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	zw := archive.NewZipWriter(tmp)
	if err := res.Write(zw, props); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write package: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to finalize package: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	if fixZip {
		return archive.CopyWithoutDataDescriptors(tmpName, outputName)
	}
	return archive.CopyFile(tmpName, outputName)
}
