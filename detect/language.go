package detect

import (
	"fmt"
)

// Language identifies the declared language of a recording. The set is
// closed; unknown values are rejected before classification.
type Language string

const (
	LanguageTamil     Language = "Tamil"
	LanguageEnglish   Language = "English"
	LanguageHindi     Language = "Hindi"
	LanguageMalayalam Language = "Malayalam"
	LanguageTelugu    Language = "Telugu"
	LanguageBengali   Language = "Bengali"
)

// SupportedLanguages returns the closed language set in a fixed order
func SupportedLanguages() []Language {
	return []Language{
		LanguageTamil,
		LanguageEnglish,
		LanguageHindi,
		LanguageMalayalam,
		LanguageTelugu,
		LanguageBengali,
	}
}

// Valid reports whether the language is in the supported set
func (l Language) Valid() bool {
	for _, lang := range SupportedLanguages() {
		if l == lang {
			return true
		}
	}
	return false
}

// ParseLanguage maps a request string onto the closed language set
func ParseLanguage(s string) (Language, error) {
	lang := Language(s)
	if !lang.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return lang, nil
}

// LanguageOverride adjusts scoring for one language. Languages differ in
// typical prosodic and phonetic baselines, so a single global threshold
// would bias some of them toward one label.
type LanguageOverride struct {
	// Threshold replaces the default decision threshold when non-nil
	Threshold *float64 `json:"threshold,omitempty"`

	// Weights replaces individual dimension weights; the merged weight set
	// is renormalized to sum to 1
	Weights map[Dimension]float64 `json:"weights,omitempty"`
}
