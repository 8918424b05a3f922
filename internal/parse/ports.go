package parse

type Token struct {
	Text    string `json:"text"`
	IsWord  bool   `json:"is_word"`
	Reading string `json:"reading,omitempty"`
}

type Result struct {
	Sentences []string `json:"sentences"`
	Tokens    []Token  `json:"tokens"`
}

// Parser разбирает текст на предложения и токены.
// Текст делится по переводам строки, пустые абзацы пропускаются.
type Parser interface {
	Parse(text string) (Result, error)
}
