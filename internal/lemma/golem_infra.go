package lemma

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/de"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/aaaton/golem/v4/dicts/es"
	"github.com/aaaton/golem/v4/dicts/fr"
	"github.com/aaaton/golem/v4/dicts/it"
	"github.com/aaaton/golem/v4/dicts/sv"
)

var golemPacks = map[string]func() (*golem.Lemmatizer, error){
	"de": func() (*golem.Lemmatizer, error) { return golem.New(de.New()) },
	"en": func() (*golem.Lemmatizer, error) { return golem.New(en.New()) },
	"es": func() (*golem.Lemmatizer, error) { return golem.New(es.New()) },
	"fr": func() (*golem.Lemmatizer, error) { return golem.New(fr.New()) },
	"it": func() (*golem.Lemmatizer, error) { return golem.New(it.New()) },
	"sv": func() (*golem.Lemmatizer, error) { return golem.New(sv.New()) },
}

// GolemLemmatizer — словарная лемматизация, словари вшиты в бинарь.
// Словарь языка распаковывается при первом обращении и живёт до конца процесса.
type GolemLemmatizer struct {
	mu     sync.Mutex
	loaded map[string]*golem.Lemmatizer
}

func NewGolemLemmatizer() *GolemLemmatizer {
	return &GolemLemmatizer{loaded: make(map[string]*golem.Lemmatizer)}
}

func (g *GolemLemmatizer) lemmatizer(language string) *golem.Lemmatizer {
	g.mu.Lock()
	defer g.mu.Unlock()

	if l, ok := g.loaded[language]; ok {
		return l
	}

	packFn, ok := golemPacks[language]
	if !ok {
		return nil
	}

	l, err := packFn()
	if err != nil {
		log.Printf("[lemma] load %s dictionary: %v", language, err)
		return nil
	}

	g.loaded[language] = l
	return l
}

func (g *GolemLemmatizer) Lemmatize(word, language string) (string, bool) {
	l := g.lemmatizer(language)
	if l == nil {
		return "", false
	}

	if !l.InDict(word) {
		return "", false
	}

	lemma := l.Lemma(word)
	if strings.EqualFold(lemma, word) {
		// слово уже в базовой форме
		return "", false
	}

	return lemma, true
}

func (g *GolemLemmatizer) Supports(language string) bool {
	_, ok := golemPacks[language]
	return ok
}

func (g *GolemLemmatizer) Languages() []string {
	return g.AllLanguages()
}

func (g *GolemLemmatizer) AllLanguages() []string {
	langs := make([]string, 0, len(golemPacks))
	for code := range golemPacks {
		langs = append(langs, code)
	}
	sort.Strings(langs)
	return langs
}
