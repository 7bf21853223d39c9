package convert

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hdocx/docx"
	"hdocx/markup"
	"hdocx/opc"
	"hdocx/state"
)

// validate runs structural self-check of produced parts. In strict mode any
// problem fails conversion, otherwise problems are only logged.
func validate(res *docx.Result, env *state.LocalEnv, log *zap.Logger) error {
	if !env.Cfg.Validation.ValidateXML {
		return nil
	}

	err := checkParts(res)
	if env.Rpt != nil {
		env.Rpt.StoreData("validation.txt", []byte(validationReport(err)))
	}
	if err == nil {
		log.Debug("Document passed validation")
		return nil
	}
	if env.Cfg.Validation.Strict {
		return fmt.Errorf("document failed validation: %w", err)
	}
	for _, e := range multierr.Errors(err) {
		log.Warn("Document validation problem", zap.Error(e))
	}
	return nil
}

func checkParts(res *docx.Result) error {
	err := markup.Check(res.Document)

	ct, er := opc.ContentTypes(res.MediaExts, res.Footer != "")
	if er != nil {
		err = multierr.Append(err, er)
	} else {
		err = multierr.Append(err, markup.CheckBasic(ct, opc.PartContentTypes))
	}
	rels, er := opc.DocumentRels(res.Relationships)
	if er != nil {
		err = multierr.Append(err, er)
	} else {
		err = multierr.Append(err, markup.CheckBasic(rels, opc.PartDocumentRels))
	}
	if res.Footer != "" {
		err = multierr.Append(err, markup.CheckBasic(res.Footer, opc.PartFooter))
	}
	return err
}

func validationReport(err error) string {
	if err == nil {
		return "OK\n"
	}
	var sb strings.Builder
	for _, e := range multierr.Errors(err) {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
