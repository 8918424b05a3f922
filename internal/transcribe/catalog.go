package transcribe

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ModelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Languages = []Language{
	{"af", "Afrikaans"},
	{"ar", "Arabic"},
	{"hy", "Armenian"},
	{"az", "Azerbaijani"},
	{"be", "Belarusian"},
	{"bs", "Bosnian"},
	{"bg", "Bulgarian"},
	{"ca", "Catalan"},
	{"zh", "Chinese"},
	{"hr", "Croatian"},
	{"cs", "Czech"},
	{"da", "Danish"},
	{"nl", "Dutch"},
	{"en", "English"},
	{"et", "Estonian"},
	{"fi", "Finnish"},
	{"fr", "French"},
	{"gl", "Galician"},
	{"de", "German"},
	{"el", "Greek"},
	{"he", "Hebrew"},
	{"hi", "Hindi"},
	{"hu", "Hungarian"},
	{"is", "Icelandic"},
	{"id", "Indonesian"},
	{"it", "Italian"},
	{"ja", "Japanese"},
	{"kn", "Kannada"},
	{"kk", "Kazakh"},
	{"ko", "Korean"},
	{"lv", "Latvian"},
	{"lt", "Lithuanian"},
	{"mk", "Macedonian"},
	{"ms", "Malay"},
	{"mr", "Marathi"},
	{"mi", "Maori"},
	{"ne", "Nepali"},
	{"no", "Norwegian"},
	{"fa", "Persian"},
	{"pl", "Polish"},
	{"pt", "Portuguese"},
	{"ro", "Romanian"},
	{"ru", "Russian"},
	{"sr", "Serbian"},
	{"sk", "Slovak"},
	{"sl", "Slovenian"},
	{"es", "Spanish"},
	{"sw", "Swahili"},
	{"sv", "Swedish"},
	{"tl", "Tagalog"},
	{"ta", "Tamil"},
	{"th", "Thai"},
	{"tr", "Turkish"},
	{"uk", "Ukrainian"},
	{"ur", "Urdu"},
	{"vi", "Vietnamese"},
	{"cy", "Welsh"},
}

var Models = []ModelInfo{
	{"tiny", "Fastest, lowest accuracy (~1GB VRAM)"},
	{"base", "Fast, good accuracy (~1GB VRAM)"},
	{"small", "Balanced speed/accuracy (~2GB VRAM)"},
	{"medium", "Higher accuracy, slower (~5GB VRAM)"},
	{"large", "Best accuracy, slowest (~10GB VRAM)"},
}

func ValidModel(name string) bool {
	for _, m := range Models {
		if m.Name == name {
			return true
		}
	}
	return false
}
