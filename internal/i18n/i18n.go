// Package i18n provides the UI message catalogs.
//
// Catalogs are flat YAML maps embedded in the binary. Lookups fall back to
// the English catalog and then to the caller's fallback text.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLang is the base catalog every other language falls back to
const DefaultLang = "en"

//go:embed locales/*.yaml
var locales embed.FS

// Translator looks up UI messages
type Translator interface {
	T(key, fallback string) string
	Tf(key string, vars map[string]any, fallback string) string
}

// Catalog is a loaded language with the English catalog behind it
type Catalog struct {
	lang     string
	messages map[string]string
	base     map[string]string
}

// Load reads the catalog for lang. An empty lang selects DefaultLang.
func Load(lang string) (*Catalog, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = DefaultLang
	}

	base, err := readCatalog(DefaultLang)
	if err != nil {
		return nil, err
	}
	messages := base
	if lang != DefaultLang {
		if messages, err = readCatalog(lang); err != nil {
			return nil, err
		}
	}

	return &Catalog{lang: lang, messages: messages, base: base}, nil
}

// MustLoad is Load for catalogs known to be embedded
func MustLoad(lang string) *Catalog {
	c, err := Load(lang)
	if err != nil {
		panic(err)
	}
	return c
}

// Languages lists the embedded catalogs
func Languages() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(langs)
	return langs
}

func readCatalog(lang string) (map[string]string, error) {
	data, err := locales.ReadFile("locales/" + lang + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("i18n: unknown language %q", lang)
	}
	if err != nil {
		return nil, err
	}

	messages := map[string]string{}
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("i18n: parse %s catalog: %w", lang, err)
	}
	return messages, nil
}

// Lang returns the catalog language
func (c *Catalog) Lang() string {
	return c.lang
}

// T returns the message for key. Missing keys fall back to English, then to
// fallback, then to the key itself.
func (c *Catalog) T(key, fallback string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	if msg, ok := c.base[key]; ok {
		return msg
	}
	if fallback != "" {
		return fallback
	}
	return key
}

// Tf is T with {name} placeholders replaced from vars
func (c *Catalog) Tf(key string, vars map[string]any, fallback string) string {
	msg := c.T(key, fallback)
	for k, v := range vars {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprint(v))
	}
	return msg
}

// SingleDeck is the default title of a deck imported from a bare item list
func (c *Catalog) SingleDeck() string {
	return c.T("default_deck_single", "Deck")
}

// Numbered is the default title of the n-th deck
func (c *Catalog) Numbered(n int) string {
	return c.Tf("default_deck_title", map[string]any{"n": n}, "Deck {n}")
}

// EmptyValue is shown in place of an empty field
func (c *Catalog) EmptyValue() string {
	return c.T("empty_value", "-")
}
