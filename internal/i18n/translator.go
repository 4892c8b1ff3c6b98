// Package i18n serves the static translation dictionaries of the site.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// DefaultLanguage is used when a visitor has not chosen a language.
const DefaultLanguage = "en"

// ErrUnsupportedLanguage is returned for a language without a dictionary.
var ErrUnsupportedLanguage = errors.New("i18n: unsupported language")

//go:embed locales/*.json
var localeFiles embed.FS

// Translator maps language code to key to localized string.
type Translator struct {
	dictionaries map[string]map[string]string
}

// New loads the embedded dictionaries.
func New() (*Translator, error) {
	return Load(localeFiles, "locales")
}

// Load reads one <lang>.json dictionary per language from dir within filesystem.
func Load(filesystem fs.FS, dir string) (*Translator, error) {
	entries, err := fs.ReadDir(filesystem, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}

	t := &Translator{dictionaries: make(map[string]map[string]string)}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		raw, err := fs.ReadFile(filesystem, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		dict := make(map[string]string)
		if err := json.Unmarshal(raw, &dict); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
		t.dictionaries[strings.TrimSuffix(name, ".json")] = dict
	}
	if _, ok := t.dictionaries[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("i18n: missing %s dictionary", DefaultLanguage)
	}
	return t, nil
}

// Languages returns the supported language codes, sorted.
func (t *Translator) Languages() []string {
	out := make([]string, 0, len(t.dictionaries))
	for lang := range t.dictionaries {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether lang has a dictionary.
func (t *Translator) Supports(lang string) bool {
	_, ok := t.dictionaries[lang]
	return ok
}

// T returns the translation of key in lang, or the key itself when either
// the language or the key is unknown.
func (t *Translator) T(lang, key string) string {
	if value, ok := t.dictionaries[lang][key]; ok {
		return value
	}
	return key
}

// Dictionary returns a copy of the full dictionary of lang.
func (t *Translator) Dictionary(lang string) (map[string]string, error) {
	dict, ok := t.dictionaries[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	out := make(map[string]string, len(dict))
	for k, v := range dict {
		out[k] = v
	}
	return out, nil
}
