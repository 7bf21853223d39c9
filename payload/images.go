package payload

import (
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"

	"hdocx/media"
)

// ImagesFromDir loads every image file under dir as collateral. Files are
// taken in natural order of their relative paths, which also defines
// positional img-N keys.
func ImagesFromDir(dir string) ([]media.Image, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list images in %s: %w", dir, err)
	}
	sort.Sort(natural.StringSlice(names))

	images := make([]media.Image, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return nil, fmt.Errorf("unable to read image %s: %w", name, err)
		}
		mt := imageMime(name, data)
		if mt == "" {
			continue
		}
		images = append(images, media.Image{
			Name:     name,
			FileName: path.Base(name),
			Path:     name,
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: mt,
		})
	}
	return images, nil
}

// imageMime sniffs content first and falls back to extension, non image
// files get empty type.
func imageMime(name string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		if strings.HasPrefix(kind.MIME.Value, "image/") {
			return kind.MIME.Value
		}
		return ""
	}
	// svg is text, sniffer does not know it
	if strings.EqualFold(path.Ext(name), ".svg") {
		return "image/svg+xml"
	}
	return ""
}
