package parse

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownParser = errors.New("unknown parser")

type Info struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Languages []string `json:"languages"`
}

// Service создаёт парсеры лениво: словари тяжёлые, грузим только то,
// что реально спросили, и держим до конца процесса.
type Service struct {
	mu      sync.Mutex
	parsers map[string]Parser
}

func NewService() *Service {
	return &Service{parsers: make(map[string]Parser)}
}

func (s *Service) Available() []Info {
	return []Info{
		{ID: "kagome", Name: "Kagome (Japanese)", Languages: []string{"ja"}},
		{ID: "gse", Name: "Gse (Chinese)", Languages: []string{"zh"}},
	}
}

func (s *Service) Parse(parserID, text string) (Result, error) {
	p, err := s.parser(parserID)
	if err != nil {
		return Result{}, err
	}
	return p.Parse(text)
}

func (s *Service) parser(id string) (Parser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.parsers[id]; ok {
		return p, nil
	}

	var (
		p   Parser
		err error
	)
	switch id {
	case "kagome":
		p, err = NewKagomeParser()
	case "gse":
		p, err = NewGseParser()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownParser, id)
	}
	if err != nil {
		return nil, err
	}

	s.parsers[id] = p
	return p, nil
}
