package lemma

import (
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeLemmatizer достаёт базовые формы японских слов из словаря IPA.
type KagomeLemmatizer struct {
	once sync.Once
	t    *tokenizer.Tokenizer
}

func NewKagomeLemmatizer() *KagomeLemmatizer {
	return &KagomeLemmatizer{}
}

func (k *KagomeLemmatizer) tokenizer() *tokenizer.Tokenizer {
	k.once.Do(func() {
		t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if err != nil {
			// словарь вшит в бинарь, сюда попадаем только при порче сборки
			return
		}
		k.t = t
	})
	return k.t
}

func (k *KagomeLemmatizer) Lemmatize(word, language string) (string, bool) {
	if language != "ja" {
		return "", false
	}

	t := k.tokenizer()
	if t == nil {
		return "", false
	}

	toks := t.Tokenize(word)
	if len(toks) == 0 {
		return "", false
	}

	base, ok := toks[0].BaseForm()
	if !ok || base == "" || base == "*" {
		return "", false
	}
	if strings.EqualFold(base, word) {
		return "", false
	}

	return base, true
}

func (k *KagomeLemmatizer) Supports(language string) bool {
	return language == "ja"
}

func (k *KagomeLemmatizer) Languages() []string {
	return []string{"ja"}
}

func (k *KagomeLemmatizer) AllLanguages() []string {
	return []string{"ja"}
}
