// Package stylesheet implements the Stylesheet Bundler: concatenate every
// fragment's CSS asset in descriptor iteration order, minify, hash the
// result, register a static route, and produce the <link> tag to inject.
package stylesheet

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

var minifier = func() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	return m
}()

// Registrar is the subset of the root RouteRegistrar this package needs,
// kept local so internal/stylesheet has no dependency on the root package.
type Registrar interface {
	Handle(pattern string, handler http.Handler)
}

// Bundle concatenates cssBlocks (already in descriptor iteration order),
// minifies the result, and — if anything survives minification — registers
// a GET route serving it and returns the <link> tag to inject into <head>.
// An empty minified result skips route registration entirely and returns
// an empty link.
//
// The route hash uses MD5: it is a cache-busting key embedded in a public
// URL, not a security boundary, so there is no correctness reason to pay
// for a stronger, slower hash here.
func Bundle(templateName string, cssBlocks []string, registrar Registrar) (linkHTML string, route string, err error) {
	concatenated := strings.Join(cssBlocks, "\n")
	if strings.TrimSpace(concatenated) == "" {
		return "", "", nil
	}

	minified, err := minifier.String("text/css", concatenated)
	if err != nil {
		return "", "", fmt.Errorf("stylesheet: minify: %w", err)
	}
	if strings.TrimSpace(minified) == "" {
		return "", "", nil
	}

	sum := md5.Sum([]byte(minified))
	hash := hex.EncodeToString(sum[:])

	route = fmt.Sprintf("/static/%s.min.css", templateName)
	if registrar != nil {
		registrar.Handle(route, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			w.Header().Set("Cache-Control", "public, max-age=31557600")
			_, _ = w.Write([]byte(minified))
		}))
	}

	link := fmt.Sprintf(`<link rel="stylesheet" href="%s?v=%s">`, route, hash)
	return link, route, nil
}

// CollectCSS filters a list of CSS asset contents, skipping (not aborting
// on) blank entries: one fragment with no CSS contribution never blanks out
// the whole CSS pass.
func CollectCSS(assetContents []string) []string {
	out := make([]string, 0, len(assetContents))
	for _, c := range assetContents {
		if strings.TrimSpace(c) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
