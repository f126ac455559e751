package utils

import "strings"

// ConvertTextFormat turns a backend enum value like "FALSE_POSITIVE" into the display form
// "False Positive".
func ConvertTextFormat(value string) string {
	if value == "" {
		return ""
	}

	words := strings.Split(strings.ToLower(value), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// TruncateText shortens a string to at most maxLength runes, appending an ellipsis when
// something was cut off.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
