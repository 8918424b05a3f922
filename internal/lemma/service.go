package lemma

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultBackend = "golem"

var (
	ErrUnknownBackend      = errors.New("unknown lemmatizer")
	ErrUnsupportedLanguage = errors.New("language not supported")
)

// Service — реестр бэкендов лемматизации: golem по умолчанию,
// для японского отдельный бэкенд на kagome.
type Service struct {
	backends map[string]Lemmatizer
}

func NewService() *Service {
	return &Service{
		backends: map[string]Lemmatizer{
			"golem":  NewGolemLemmatizer(),
			"kagome": NewKagomeLemmatizer(),
		},
	}
}

func (s *Service) backend(id string) (Lemmatizer, error) {
	if id == "" {
		id = DefaultBackend
	}
	b, ok := s.backends[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, id)
	}
	return b, nil
}

func (s *Service) Lemmatize(backendID, word, language string) (string, bool, error) {
	b, err := s.backend(backendID)
	if err != nil {
		return "", false, err
	}
	if !b.Supports(language) {
		return "", false, unsupported(language, b)
	}

	lemma, ok := b.Lemmatize(word, language)
	return lemma, ok, nil
}

// LemmatizeBatch обрабатывает слова поштучно, без контекста предложения.
// Словам без леммы соответствует nil.
func (s *Service) LemmatizeBatch(backendID string, words []string, language string) (map[string]*string, error) {
	b, err := s.backend(backendID)
	if err != nil {
		return nil, err
	}
	if !b.Supports(language) {
		return nil, unsupported(language, b)
	}

	results := make(map[string]*string, len(words))
	for _, word := range words {
		if lemma, ok := b.Lemmatize(word, language); ok {
			l := lemma
			results[word] = &l
		} else {
			results[word] = nil
		}
	}
	return results, nil
}

func (s *Service) Available() []Info {
	golemLangs := s.backends["golem"].Languages()
	kagomeLangs := s.backends["kagome"].Languages()

	return []Info{
		{ID: "golem", Name: "Golem (dictionary)", Languages: golemLangs, Available: len(golemLangs) > 0},
		{ID: "kagome", Name: "Kagome (Japanese)", Languages: kagomeLangs, Available: len(kagomeLangs) > 0},
	}
}

// CheckLanguage — отчёт по языку: какой бэкенд его знает.
func (s *Service) CheckLanguage(language string) map[string]any {
	report := map[string]any{"language": language}
	for id, b := range s.backends {
		report[id] = map[string]any{
			"supported": contains(b.AllLanguages(), language),
			"installed": b.Supports(language),
		}
	}
	return report
}

func unsupported(language string, b Lemmatizer) error {
	return fmt.Errorf("%w: %s (available: %s)",
		ErrUnsupportedLanguage, language, strings.Join(b.Languages(), ", "))
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
