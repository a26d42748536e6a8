package helpers

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// DetailLabel turns a card-detail key (camelCase, PascalCase or snake_case)
// into a display label, e.g. "annualFee" -> "Annual Fee".
func DetailLabel(key string) string {
	var sb strings.Builder
	prev := rune(0)
	for _, r := range key {
		switch {
		case r == '_':
			sb.WriteRune(' ')
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			sb.WriteRune(' ')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
		prev = r
	}

	label := strings.Join(strings.Fields(sb.String()), " ")
	return titleCaser.String(label)
}
