package parse

import (
	"regexp"
	"strings"

	"github.com/go-ego/gse"
)

// GseParser — китайская сегментация, словарь идёт в комплекте с библиотекой.
type GseParser struct {
	seg gse.Segmenter
}

func NewGseParser() (*GseParser, error) {
	p := &GseParser{}
	if err := p.seg.LoadDict(); err != nil {
		return nil, err
	}
	return p, nil
}

// токен считается словом, если в нём есть иероглиф, буква или цифра
var wordRe = regexp.MustCompile(`[\p{Han}\p{L}\p{N}_]`)

func (p *GseParser) Parse(text string) (Result, error) {
	res := Result{Sentences: []string{}, Tokens: []Token{}}

	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}

		words := p.seg.Cut(para, true)
		if len(words) == 0 {
			continue
		}

		res.Sentences = append(res.Sentences, para)

		for _, word := range words {
			res.Tokens = append(res.Tokens, Token{
				Text:   word,
				IsWord: wordRe.MatchString(word),
			})
		}
	}

	return res, nil
}
