// Package i18n holds the compiled-in translation table: locale code ->
// message key -> text. Files are named active.<code>.toml and parsed with
// go-i18n, so values may use Go template syntax rendered by Format.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLocale is the fallback for every lookup.
const DefaultLocale = "en"

//go:embed locales/*.toml
var localeFS embed.FS

// Table is immutable after construction and safe for concurrent use.
type Table struct {
	bundle     *goi18n.Bundle
	localizers map[string]*goi18n.Localizer
	messages   map[string]map[string]string
}

// Default loads the embedded locales.
func Default() (*Table, error) {
	return NewTable(localeFS, "locales")
}

// MustDefault is Default that panics; the embedded files are part of the
// binary, so a failure is a build defect.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable parses every *.toml file in dir of fsys.
func NewTable(fsys fs.FS, dir string) (*Table, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}

	t := &Table{
		bundle:     bundle,
		localizers: make(map[string]*goi18n.Localizer),
		messages:   make(map[string]map[string]string),
	}

	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		mf, err := bundle.ParseMessageFileBytes(data, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		code := baseCode(mf.Tag)
		if t.messages[code] == nil {
			t.messages[code] = make(map[string]string)
		}
		for _, m := range mf.Messages {
			t.messages[code][m.ID] = m.Other
		}
	}

	if _, ok := t.messages[DefaultLocale]; !ok {
		return nil, fmt.Errorf("no %q locale in %s", DefaultLocale, dir)
	}

	for code := range t.messages {
		t.localizers[code] = goi18n.NewLocalizer(bundle, code, DefaultLocale)
	}

	return t, nil
}

func baseCode(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Locales returns the loaded locale codes, sorted.
func (t *Table) Locales() []string {
	codes := make([]string, 0, len(t.messages))
	for code := range t.messages {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

func (t *Table) Has(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// Lookup returns the raw text for key in exactly this locale.
func (t *Table) Lookup(locale, key string) (string, bool) {
	text, ok := t.messages[locale][key]
	return text, ok
}

// Keys returns the keys defined for locale, sorted.
func (t *Table) Keys(locale string) []string {
	keys := make([]string, 0, len(t.messages[locale]))
	for k := range t.messages[locale] {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Format renders key for locale with template data, falling back to the
// default locale and then to the key itself.
func (t *Table) Format(locale, key string, data map[string]any) string {
	for _, code := range []string{locale, DefaultLocale} {
		loc, ok := t.localizers[code]
		if !ok {
			continue
		}
		msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
		if err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return key
}
