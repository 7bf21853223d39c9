package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"hdocx/config"
	"hdocx/payload"
	"hdocx/state"
)

const outputExt = ".docx"

// buildOutputPath returns constructed output file path/name. Explicit name
// wins, then name requested by payload, then user-defined template expanded
// over payload values. Template may produce subdirectories. Every path
// segment is cleaned up and if requested transliterated.
func buildOutputPath(p *payload.Payload, name, dst string, now time.Time, env *state.LocalEnv) string {
	if name = strings.TrimSpace(name); len(name) == 0 {
		name = strings.TrimSpace(p.CustomFileName)
	}
	if len(name) > 0 {
		return filepath.Join(dst, cleanPathSegment(trimExt(name), env)+outputExt)
	}

	values := buildValues(p, config.NameTemplateFieldName, now)
	defaultFile := cleanPathSegment(values.FileNameBase+"_"+values.Tab+"_"+values.Timestamp, env) + outputExt

	if env.Cfg.Output.NameTemplate == "" {
		return filepath.Join(dst, defaultFile)
	}

	expandedName := expandOutputNameTemplate(values, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(dst, defaultFile)
	}

	return assemblePathWithSubdirs(dst, expandedName, env)
}

// trimExt drops .docx extension so it is not cleaned together with the
// name.
func trimExt(name string) string {
	if strings.EqualFold(filepath.Ext(name), outputExt) {
		return name[:len(name)-len(outputExt)]
	}
	return name
}

func expandOutputNameTemplate(v Values, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(v, config.NameTemplateFieldName, env.Cfg.Output.NameTemplate)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	pathSegments := splitAndCleanPath(expandedName)

	if len(pathSegments) == 0 {
		return outDir
	}

	fileName := cleanPathSegment(trimExt(pathSegments[len(pathSegments)-1]), env) + outputExt
	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)

	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}

	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
		path = head
	}

	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.Transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
