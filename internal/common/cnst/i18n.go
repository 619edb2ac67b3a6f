package cnst

const (
	// LangDE is the German language code
	LangDE = "de"
	// LangEN is the English language code
	LangEN = "en"
	// LangDefault is the default language of the console
	LangDefault = LangDE

	// XLang is the header and context key carrying the request language
	XLang = "X-Lang"
	// AcceptLanguage is the standard language negotiation header
	AcceptLanguage = "Accept-Language"
)
