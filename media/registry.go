package media

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Registry resolves image references found in content to collateral. Every
// collateral is registered under many variants of its names, so references
// with or without directories, prefixes, extensions or percent encoding all
// find it. When variants of different images collide the first one wins.
type Registry struct {
	lookup    map[string]*Asset
	// inline data URIs, decoded once
	inline    map[string]*Asset
	normalize func(*Asset) *Asset
	log       *zap.Logger
}

type Option func(*Registry)

// WithNormalizer sets function applied to every decoded asset before it is
// registered.
func WithNormalizer(fn func(*Asset) *Asset) Option {
	return func(r *Registry) {
		r.normalize = fn
	}
}

var (
	reImageExt   = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp)$`)
	reImagesDir  = regexp.MustCompile(`(?i)^images/`)
	reDotImages  = regexp.MustCompile(`(?i)^\./images/`)
	reDotSlash   = regexp.MustCompile(`^\./?`)
	reLeadDots   = regexp.MustCompile(`^[./]+`)
	reDotOrSlash = regexp.MustCompile(`^\.?/`)
	reHTTPScheme = regexp.MustCompile(`(?i)^https?://`)
	reFileScheme = regexp.MustCompile(`(?i)^file://`)
	reSegmentSep = regexp.MustCompile(`[\\/]`)
)

// NewRegistry decodes collateral and builds lookup table. Images without
// data or with undecodable data are skipped.
func NewRegistry(images []Image, log *zap.Logger, opts ...Option) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		lookup: make(map[string]*Asset),
		inline: make(map[string]*Asset),
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}
	for idx := range images {
		img := &images[idx]
		if img.Data == "" {
			continue
		}
		asset, err := ParseDataURI(img.DataURI())
		if err != nil {
			log.Warn("Unable to decode image collateral, skipping", zap.Int("index", idx), zap.String("name", img.Name), zap.Error(err))
			continue
		}
		asset = r.prepare(asset)

		added := 0
		for _, key := range variants(baseKeys(img, idx)) {
			if nk := normalizeKey(key); nk != "" {
				if _, exists := r.lookup[nk]; !exists {
					r.lookup[nk] = asset
					added++
				}
			}
		}
		log.Debug("Image registered", zap.Int("index", idx), zap.String("type", asset.MimeType), zap.Int("keys", added))
	}
	return r
}

// Len returns number of distinct lookup keys.
func (r *Registry) Len() int {
	return len(r.lookup)
}

func (r *Registry) prepare(a *Asset) *Asset {
	if r.normalize == nil {
		return a
	}
	if n := r.normalize(a); n != nil {
		return n
	}
	return a
}

func baseKeys(img *Image, idx int) []string {
	keys := make([]string, 0, 7)
	for _, k := range []string{img.Name, img.ID, img.OriginalName, img.FileName, img.Path} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return append(keys, fmt.Sprintf("img-%d.jpeg.png", idx), fmt.Sprintf("img-%d.jpeg.png", idx+1))
}

// variants expands keys into every form reference to the image may take.
// Order matters: earlier variants are registered first.
func variants(keys []string) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	for _, key := range keys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		add(trimmed)
		add(reDotSlash.ReplaceAllString(trimmed, ""))
		add(reDotOrSlash.ReplaceAllString(trimmed, ""))
		add(reImagesDir.ReplaceAllString(trimmed, ""))
		add(reDotImages.ReplaceAllString(trimmed, ""))
		add(reLeadDots.ReplaceAllString(trimmed, ""))
		if decoded := decode(trimmed); decoded != trimmed {
			add(decoded)
			add(reImagesDir.ReplaceAllString(decoded, ""))
		}
		add(lastSegment(trimmed))
		add(strings.ToLower(trimmed))
		add(strings.ToUpper(trimmed))
		add("images/" + trimmed)
	}

	// references frequently omit extension
	for _, v := range out {
		if v = strings.TrimSpace(v); v != "" && !reImageExt.MatchString(v) {
			add(v + ".png")
			add(v + ".jpg")
			add(v + ".jpeg")
		}
	}
	return out
}

// normalizeKey cuts fragment and query, strips leading "./" and "images/"
// and lower-cases the rest.
func normalizeKey(key string) string {
	k := strings.TrimSpace(key)
	if k == "" {
		return ""
	}
	k, _, _ = strings.Cut(k, "#")
	k, _, _ = strings.Cut(k, "?")
	k = reDotSlash.ReplaceAllString(k, "")
	k = reDotImages.ReplaceAllString(k, "")
	k = reImagesDir.ReplaceAllString(k, "")
	return strings.ToLower(k)
}

// Resolve finds asset for image reference. Data URIs resolve to themselves.
func (r *Registry) Resolve(src string) (*Asset, bool) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, false
	}

	if strings.HasPrefix(trimmed, "data:image") {
		if a, ok := r.inline[trimmed]; ok {
			return a, a != nil
		}
		a, err := ParseDataURI(trimmed)
		if err != nil {
			r.log.Debug("Unable to decode inline image", zap.Error(err))
			a = nil
		} else {
			a = r.prepare(a)
		}
		r.inline[trimmed] = a
		return a, a != nil
	}

	for _, candidate := range candidates(trimmed) {
		if nk := normalizeKey(candidate); nk != "" {
			if a, ok := r.lookup[nk]; ok {
				return a, true
			}
		}
	}
	return nil, false
}

func candidates(src string) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	add(src)
	if decoded := decode(src); decoded != src {
		add(decoded)
	}
	for _, v := range append([]string(nil), out...) {
		stripped := reFileScheme.ReplaceAllString(reHTTPScheme.ReplaceAllString(v, ""), "")
		add(stripped)
		add(reDotSlash.ReplaceAllString(stripped, ""))
		add(lastSegment(stripped))
	}
	return out
}

func decode(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return s
}

func lastSegment(s string) string {
	parts := reSegmentSep.Split(s, -1)
	return parts[len(parts)-1]
}
