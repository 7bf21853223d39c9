package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hdocx/archive"
	"hdocx/markup"
	"hdocx/opc"
	"hdocx/state"
)

var requiredParts = []string{
	opc.PartContentTypes,
	opc.PartPackageRels,
	opc.PartDocument,
	opc.PartDocumentRels,
}

// Verify checks previously produced package.
func Verify(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("verify")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no package has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many packages", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	parts, err := readPackage(src)
	if err != nil {
		return fmt.Errorf("unable to read package: %w", err)
	}

	for _, name := range partNames(parts) {
		log.Info("Part", zap.String("name", name), zap.Int("size", len(parts[name])))
	}
	if err := verifyPackage(parts); err != nil {
		return fmt.Errorf("package verification failed (%s): %w", src, err)
	}
	log.Info("Package is valid", zap.String("file", src), zap.Int("parts", len(parts)))
	return nil
}

func readPackage(src string) (map[string][]byte, error) {
	parts := make(map[string][]byte)
	err := archive.Walk(src, "", func(_ string, f *zip.File) error {
		r, err := f.Open()
		if err != nil {
			return fmt.Errorf("unable to open part %s: %w", f.Name, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("unable to read part %s: %w", f.Name, err)
		}
		parts[f.Name] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func partNames(parts map[string][]byte) []string {
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// verifyPackage reports every problem found: missing required parts, XML
// parts which do not parse, document self-check failures, dangling internal
// relationships and media without declared content type.
func verifyPackage(parts map[string][]byte) error {
	var err error
	for _, name := range requiredParts {
		if _, ok := parts[name]; !ok {
			err = multierr.Append(err, fmt.Errorf("required part %s is missing", name))
		}
	}

	docs := make(map[string]*etree.Document)
	for _, name := range partNames(parts) {
		if !archive.IsXMLPart(name) {
			continue
		}
		doc := etree.NewDocument()
		if er := doc.ReadFromBytes(parts[name]); er != nil {
			err = multierr.Append(err, fmt.Errorf("part %s is not well formed: %w", name, er))
			continue
		}
		docs[name] = doc
	}

	if data, ok := parts[opc.PartDocument]; ok {
		if er := markup.Check(string(data)); er != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", opc.PartDocument, er))
		}
	}
	if doc, ok := docs[opc.PartDocumentRels]; ok {
		err = multierr.Append(err, checkTargets(doc, parts))
	}
	if doc, ok := docs[opc.PartContentTypes]; ok {
		err = multierr.Append(err, checkMediaTypes(doc, parts))
	}
	return err
}

// checkTargets makes sure internal relationships of the document point to
// existing parts.
func checkTargets(rels *etree.Document, parts map[string][]byte) error {
	var err error
	for _, rel := range rels.FindElements("//Relationship") {
		if rel.SelectAttrValue("TargetMode", "") == "External" {
			continue
		}
		target := rel.SelectAttrValue("Target", "")
		name := path.Join(path.Dir(opc.PartDocument), target)
		if _, ok := parts[name]; !ok {
			err = multierr.Append(err, fmt.Errorf("relationship %s points to missing part %s",
				rel.SelectAttrValue("Id", ""), name))
		}
	}
	return err
}

// checkMediaTypes makes sure every embedded media extension has default
// content type.
func checkMediaTypes(types *etree.Document, parts map[string][]byte) error {
	declared := make(map[string]bool)
	for _, def := range types.FindElements("//Default") {
		declared[strings.ToLower(def.SelectAttrValue("Extension", ""))] = true
	}
	var err error
	for _, name := range partNames(parts) {
		if !strings.HasPrefix(name, opc.MediaDir) {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
		if !declared[ext] {
			err = multierr.Append(err, fmt.Errorf("media %s has no declared content type", name))
		}
	}
	return err
}
