// Package factory maps institution tags to statement parsers and checks that an
// uploaded file's extension is one the institution's parser can read.
package factory

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"mynab/budget-import/internal/bbvaparser"
	"mynab/budget-import/internal/commbankparser"
	"mynab/budget-import/internal/icbcparser"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/mercadopagoparser"
	"mynab/budget-import/internal/parser"
	"mynab/budget-import/internal/parsererror"
	"mynab/budget-import/internal/santanderparser"
)

// Registration binds an institution tag to its parser and accepted extensions.
type Registration struct {
	Institution string
	Extensions  []string
	Parser      parser.StatementParser
}

// Accepts reports whether ext (with leading dot, any case) is allowed.
func (r Registration) Accepts(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range r.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Registry is the institution-to-parser table. It is populated once at start-up and
// read-only afterwards.
type Registry struct {
	entries map[string]Registration
	logger  logging.Logger
}

// NewEmptyRegistry returns a registry with no institutions.
func NewEmptyRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Registry{entries: make(map[string]Registration), logger: logger}
}

// NewRegistry returns a registry holding every supported institution. The PDF
// extractor is handed to the MercadoPago parser; nil selects pdftotext on $PATH.
func NewRegistry(logger logging.Logger, extractor mercadopagoparser.PDFExtractor) *Registry {
	r := NewEmptyRegistry(logger)
	r.Register(santanderparser.NewAdapter(logger), ".xlsx")
	r.Register(icbcparser.NewAdapter(logger), ".csv")
	r.Register(bbvaparser.NewAdapter(logger), ".xlsx")
	r.Register(commbankparser.NewAdapter(logger), ".csv")
	r.Register(mercadopagoparser.NewAdapter(logger, extractor), ".pdf")
	return r
}

// Register adds p under its institution tag. Registering the same tag twice is a
// programming error and panics.
func (r *Registry) Register(p parser.StatementParser, extensions ...string) {
	tag := normalizeTag(p.Institution())
	if _, exists := r.entries[tag]; exists {
		panic(fmt.Sprintf("factory: institution %q registered twice", tag))
	}

	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	r.entries[tag] = Registration{Institution: tag, Extensions: exts, Parser: p}
}

// Dispatch returns the parser for institution after checking that filename carries
// one of its extensions. Tags and extensions are compared case-insensitively.
func (r *Registry) Dispatch(institution, filename string) (parser.StatementParser, error) {
	tag := normalizeTag(institution)
	entry, ok := r.entries[tag]
	if !ok {
		return nil, &parsererror.UnsupportedInstitutionError{Institution: institution}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !entry.Accepts(ext) {
		return nil, &parsererror.FormatMismatchError{
			Institution: tag,
			Extension:   ext,
			Allowed:     entry.Extensions,
		}
	}

	r.logger.Debug("Dispatched statement",
		logging.F(logging.FieldInstitution, tag),
		logging.F(logging.FieldFile, filename))
	return entry.Parser, nil
}

// Lookup returns the registration for institution.
func (r *Registry) Lookup(institution string) (Registration, bool) {
	entry, ok := r.entries[normalizeTag(institution)]
	return entry, ok
}

// Institutions returns every registration ordered by tag.
func (r *Registry) Institutions() []Registration {
	out := make([]Registration, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Institution < out[j].Institution })
	return out
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
