package parse

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeParser — японский токенизатор со словарём IPA.
type KagomeParser struct {
	t *tokenizer.Tokenizer
}

func NewKagomeParser() (*KagomeParser, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &KagomeParser{t: t}, nil
}

// пунктуация и пробелы словами не считаются
var symbolPOS = map[string]bool{
	"記号":   true,
	"補助記号": true,
	"空白":   true,
}

func (p *KagomeParser) Parse(text string) (Result, error) {
	res := Result{Sentences: []string{}, Tokens: []Token{}}

	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}

		toks := p.t.Tokenize(para)
		if len(toks) == 0 {
			continue
		}

		res.Sentences = append(res.Sentences, para)

		for _, tok := range toks {
			pos := tok.POS()
			isWord := len(pos) == 0 || !symbolPOS[pos[0]]

			reading := ""
			if r, ok := tok.Reading(); ok && r != "*" {
				reading = r
			}

			res.Tokens = append(res.Tokens, Token{
				Text:    tok.Surface,
				IsWord:  isWord,
				Reading: reading,
			})
		}
	}

	return res, nil
}
