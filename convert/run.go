package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"hdocx/content"
	"hdocx/media"
	"hdocx/omml"
	"hdocx/payload"
	"hdocx/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite") || env.Cfg.Output.Overwrite

	// Bare HTML may come in archaic code page without proper meta tags
	cs := cmd.String("charset")
	if len(cs) == 0 {
		cs = env.Cfg.Input.Charset
	}
	if err := env.SelectCharset(cs); err != nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cs), zap.Error(err))
	}

	var images []media.Image
	if dir := cmd.String("images"); len(dir) > 0 {
		if images, err = payload.ImagesFromDir(dir); err != nil {
			return fmt.Errorf("unable to load image collateral: %w", err)
		}
		log.Debug("Image collateral loaded", zap.String("dir", dir), zap.Int("images", len(images)))
	}

	return process(ctx, src, dst, request{
		record: cmd.String("record"),
		name:   cmd.String("name"),
		images: images,
	}, log)
}

// request carries command line selections applying to every converted
// payload.
type request struct {
	record string
	name   string
	images []media.Image
}

// process converts source file. JSON and HTML sources produce single
// document, history database produces document per requested record or
// for every record when none was requested.
func process(ctx context.Context, src, dst string, req request, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	var p *payload.Payload
	switch payload.DetectKind(src) {
	case payload.KindDatabase:
		return processDatabase(ctx, src, dst, req, log)
	case payload.KindHTML:
		p, err = payload.LoadHTML(src, env.Charset)
	default:
		p, err = payload.LoadFile(src)
	}
	if err != nil {
		return fmt.Errorf("unable to load payload: %w", err)
	}
	if len(req.record) > 0 {
		log.Warn("Record selection ignored, source is not a history database", zap.String("record", req.record))
	}
	return processPayload(ctx, withImages(p, req.images), filepath.Base(src), dst, req.name, log)
}

// processDatabase converts records of history database. Failure of a single
// record does not stop conversion of the rest, unless record was requested
// explicitly.
func processDatabase(ctx context.Context, src, dst string, req request, log *zap.Logger) error {
	if len(req.record) > 0 {
		p, err := payload.LoadRecord(src, req.record)
		if err != nil {
			return fmt.Errorf("unable to load payload: %w", err)
		}
		return processPayload(ctx, withImages(p, req.images), recordName(src, req.record), dst, req.name, log)
	}

	ids, err := payload.RecordIDs(src)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("history database has no records (%s)", src)
	}
	if len(req.name) > 0 && len(ids) > 1 {
		log.Warn("Output name ignored, converting multiple records", zap.String("name", req.name), zap.Int("records", len(ids)))
		req.name = ""
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := payload.LoadRecord(src, id)
		if err != nil {
			log.Error("Unable to load record", zap.String("record", id), zap.Error(err))
			continue
		}
		if err := processPayload(ctx, withImages(p, req.images), recordName(src, id), dst, req.name, log); err != nil {
			log.Error("Unable to process record", zap.String("record", id), zap.Error(err))
		}
	}
	return nil
}

func recordName(src, id string) string {
	return filepath.Base(src) + "#" + id
}

// withImages adds image collateral from directory to images carried by
// payload itself.
func withImages(p *payload.Payload, images []media.Image) *payload.Payload {
	if len(images) > 0 {
		p.Images = append(p.AllImages(), images...)
	}
	return p
}

// processPayload converts single payload. "src" names the source in logs
// and debug report, "dst" is the destination directory and "name" is
// optional explicit output file name.
func processPayload(ctx context.Context, p *payload.Payload, src, dst, name string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	refID := string(p.Data.ID)
	if len(refID) == 0 {
		refID = "document"
	}

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// NOTE: image decoders are not immune to malformed input and we do
		// not want single record to bring down conversion of the whole history.
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("ref_id", refID))
		}
	}(time.Now())

	c, err := content.Prepare(ctx, strings.NewReader(p.BodyHTML), src, log, content.WithFormulaText(omml.FallbackText))
	if err != nil {
		return fmt.Errorf("unable to parse html body (%s): %w", src, err)
	}

	// Determine output file name and path based on payload and configuration.
	outputName = buildOutputPath(p, name, dst, time.Now(), env)

	// Check if output file already exists, it is only replaced once new
	// document is built and validated
	exists := false
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		exists = true
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	res, err := buildDocument(ctx, c, p, env, log)
	if err != nil {
		return err
	}
	if err := savePackage(res, properties(p, time.Now()), outputName, exists, env, log); err != nil {
		return err
	}

	// Store conversion result for debugging
	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s.docx", refID), outputName)
	}
	return nil
}
