package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	LangEN = "en"
	LangRU = "ru"
)

var requiredLanguages = []string{LangEN, LangRU}

// Manager holds one catalog per language. Catalogs are merged over the
// default language at load time so a missing key falls back per key.
// The maps returned by Messages are shared and must not be modified.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]map[string]string
	supported       []string
}

func NewManager(defaultLanguage string, localesDir string) (*Manager, error) {
	raw, err := loadCatalogs(localesDir)
	if err != nil {
		return nil, err
	}
	for _, language := range requiredLanguages {
		if _, ok := raw[language]; !ok {
			return nil, fmt.Errorf("required locale %q missing", language)
		}
	}

	manager := &Manager{catalogs: make(map[string]map[string]string, len(raw))}
	for language := range raw {
		manager.supported = append(manager.supported, language)
	}
	sort.Strings(manager.supported)

	manager.defaultLanguage = LangEN
	if normalized := normalizeLanguageTag(defaultLanguage); raw[normalized] != nil {
		manager.defaultLanguage = normalized
	}

	fallback := raw[manager.defaultLanguage]
	for language, messages := range raw {
		merged := make(map[string]string, len(fallback)+len(messages))
		for key, value := range fallback {
			merged[key] = value
		}
		for key, value := range messages {
			if strings.TrimSpace(value) != "" {
				merged[key] = value
			}
		}
		manager.catalogs[language] = merged
	}
	return manager, nil
}

func loadCatalogs(localesDir string) (map[string]map[string]string, error) {
	entries, err := os.ReadDir(localesDir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	catalogs := make(map[string]map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		language := normalizeLanguageTag(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		content, err := os.ReadFile(filepath.Join(localesDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}
		catalogs[language] = messages
	}

	if len(catalogs) == 0 {
		return nil, fmt.Errorf("no locales found in %s", localesDir)
	}
	return catalogs, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	result := make([]string, len(manager.supported))
	copy(result, manager.supported)
	return result
}

// NormalizeLanguage maps a tag such as "ru_RU" onto a supported language or
// the default one.
func (manager *Manager) NormalizeLanguage(raw string) string {
	normalized := normalizeLanguageTag(raw)
	if _, ok := manager.catalogs[normalized]; ok {
		return normalized
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the supported language with the highest
// q-value; ties keep header order.
func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	best := ""
	bestWeight := 0.0
	for _, part := range strings.Split(raw, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		language := normalizeLanguageTag(tag)
		if _, ok := manager.catalogs[language]; !ok {
			continue
		}
		weight := parseQuality(params)
		if weight > bestWeight {
			best, bestWeight = language, weight
		}
	}
	if best == "" {
		return manager.defaultLanguage
	}
	return best
}

func (manager *Manager) Messages(language string) map[string]string {
	return manager.catalogs[manager.NormalizeLanguage(language)]
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.Messages(language)[key]; ok {
		return value
	}
	return key
}

func parseQuality(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || strings.TrimSpace(name) != "q" {
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || weight < 0 {
			return 0
		}
		return weight
	}
	return 1
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	if separator := strings.Index(language, "-"); separator >= 0 {
		language = language[:separator]
	}
	return language
}
