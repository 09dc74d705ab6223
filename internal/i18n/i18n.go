// Package i18n holds the texts of notifications and mails.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// DefaultLanguage is used for unknown languages and missing keys.
const DefaultLanguage = "en"

//go:embed locales/*.json
var localesFS embed.FS

// Localizer handles translation for different languages.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer creates a new Localizer instance and loads all translations.
func NewLocalizer() (*Localizer, error) {
	locale := &Localizer{
		translations: make(map[string]map[string]string),
	}

	languages := []string{"en", "id"}
	for _, lang := range languages {
		if err := locale.loadLanguage(lang); err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	return locale, nil
}

// loadLanguage loads translations for a specific language from embedded JSON files.
func (l *Localizer) loadLanguage(lang string) error {
	filename := fmt.Sprintf("locales/%s.json", lang)
	data, err := localesFS.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read locale file %s: %w", filename, err)
	}

	var translations map[string]string
	if err = json.Unmarshal(data, &translations); err != nil {
		return fmt.Errorf("failed to unmarshal locale file %s: %w", filename, err)
	}

	l.mu.Lock()
	l.translations[lang] = translations
	l.mu.Unlock()

	return nil
}

// Get returns the translation for the given key in the specified language.
// Missing keys fall back to English, then to the key itself.
func (l *Localizer) Get(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if translation, ok := l.translations[lang][key]; ok {
		return translation
	}

	if translation, ok := l.translations[DefaultLanguage][key]; ok {
		return translation
	}

	return key
}

// GetWithData returns the translation for the given key with {placeholder} replacement.
// Example: GetWithData("en", "leave.decided.subject", map[string]any{"status": "approved"}).
func (l *Localizer) GetWithData(lang, key string, data map[string]any) string {
	translation := l.Get(lang, key)

	for k, v := range data {
		translation = strings.ReplaceAll(translation, "{"+k+"}", fmt.Sprintf("%v", v))
	}

	return translation
}

// NormalizeLanguageCode maps codes like "id-ID" to a supported language.
func NormalizeLanguageCode(code string) string {
	const langCodeShortLength = 2
	if len(code) < langCodeShortLength {
		return DefaultLanguage
	}

	switch strings.ToLower(code[:langCodeShortLength]) {
	case "id", "in":
		return "id"
	default:
		return DefaultLanguage
	}
}
