package lemma

// Lemmatizer возвращает базовую форму слова.
// ok=false — слово уже в базовой форме или словарю неизвестно.
type Lemmatizer interface {
	Lemmatize(word, language string) (lemma string, ok bool)
	Supports(language string) bool
	Languages() []string    // языки с рабочим словарём
	AllLanguages() []string // весь каталог бэкенда
}

type Info struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Languages []string `json:"languages"`
	Available bool     `json:"available"`
}
