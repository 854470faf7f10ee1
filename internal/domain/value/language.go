package value

import (
	"strings"

	"git.appkode.ru/pub/go/failure"

	"quality_evaluator/pkg/errcodes"
)

// Language is a closed enumeration of programming languages. OTHER is
// the catch-all for everything outside the list.
type Language string

const (
	LanguageJava       Language = "JAVA"
	LanguageCSharp     Language = "CSHARP"
	LanguageJavaScript Language = "JAVASCRIPT"
	LanguageTypeScript Language = "TYPESCRIPT"
	LanguagePython     Language = "PYTHON"
	LanguageKotlin     Language = "KOTLIN"
	LanguageGo         Language = "GO"
	LanguagePHP        Language = "PHP"
	LanguageRuby       Language = "RUBY"
	LanguageSwift      Language = "SWIFT"
	LanguageC          Language = "C"
	LanguageCPP        Language = "CPP"
	LanguageRust       Language = "RUST"
	LanguageDart       Language = "DART"
	LanguageOther      Language = "OTHER"
)

//nolint:gochecknoglobals
var languageDisplayNames = map[Language]string{
	LanguageJava:       "Java",
	LanguageCSharp:     "C#",
	LanguageJavaScript: "JavaScript",
	LanguageTypeScript: "TypeScript",
	LanguagePython:     "Python",
	LanguageKotlin:     "Kotlin",
	LanguageGo:         "Go",
	LanguagePHP:        "PHP",
	LanguageRuby:       "Ruby",
	LanguageSwift:      "Swift",
	LanguageC:          "C",
	LanguageCPP:        "C++",
	LanguageRust:       "Rust",
	LanguageDart:       "Dart",
	LanguageOther:      "Outra",
}

func (l Language) String() string {
	return string(l)
}

func (l Language) Valid() bool {
	_, ok := languageDisplayNames[l]
	return ok
}

// DisplayName returns the human name used in CSV export.
func (l Language) DisplayName() string {
	return languageDisplayNames[l]
}

func ParseLanguage(s string) (Language, error) {
	language := Language(strings.ToUpper(strings.TrimSpace(s)))
	if !language.Valid() {
		return "", failure.NewInvalidArgumentError(
			"invalid language: "+s,
			failure.WithCode(errcodes.InvalidLanguage),
			failure.WithDescription("Linguagem inválida"),
		)
	}

	return language, nil
}
