// Package render turns structured report entries into localized text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/megamek/acar/internal/platform/i18n/catalog"
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Renderer formats report entries for one locale.
type Renderer struct {
	bundle  *catalog.Bundle
	locale  string
	printer *message.Printer
	base    *message.Printer
	private bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPrivate includes entries hidden from opposing players.
func WithPrivate() Option {
	return func(r *Renderer) { r.private = true }
}

// New returns a renderer for locale. Unknown locales fall back to the
// catalog base locale.
func New(locale string, opts ...Option) (*Renderer, error) {
	bundle := catalog.Default()
	resolved := bundle.ResolveLocale(locale)
	tag, err := language.Parse(resolved)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", resolved, err)
	}
	r := &Renderer{
		bundle:  bundle,
		locale:  resolved,
		printer: message.NewPrinter(tag),
		base:    message.NewPrinter(language.MustParse(catalog.BaseLocale)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Locale returns the resolved locale.
func (r *Renderer) Locale() string {
	return r.locale
}

// Line renders one entry, indented two spaces per level.
func (r *Renderer) Line(e report.Entry) string {
	key := catalog.ReportKey(e.MessageID)
	var text string
	switch {
	case r.bundle.HasMessage(r.locale, key):
		text = r.printer.Sprintf(key, e.Args...)
	case r.bundle.HasMessage(catalog.BaseLocale, key):
		text = r.base.Sprintf(key, e.Args...)
	default:
		text = fallback(e)
	}
	return strings.Repeat("  ", e.Indent) + text
}

// Lines renders entries, skipping private ones unless enabled.
func (r *Renderer) Lines(entries []report.Entry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Public && !r.private {
			continue
		}
		lines = append(lines, r.Line(e))
	}
	return lines
}

// Write renders entries to w, one per line.
func (r *Renderer) Write(w io.Writer, entries []report.Entry) error {
	for _, line := range r.Lines(entries) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func fallback(e report.Entry) string {
	parts := make([]string, 0, len(e.Args)+1)
	parts = append(parts, fmt.Sprintf("[report %d]", e.MessageID))
	for _, arg := range e.Args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, " ")
}
