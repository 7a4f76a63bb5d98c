package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"cyber-doctor/internal/content"
)

const jsonWord = "json"

// RepairOutline strips code-fence residue from an LLM outline and forces the
// fixed closing suffix after the last string literal. It does not attempt any
// other repair: text without a double quote cannot be fixed.
func RepairOutline(raw string) (string, error) {
	text := removeWord(raw, jsonWord)
	text = strings.ReplaceAll(text, "`", "")

	last := strings.LastIndex(text, `"`)
	if last == -1 {
		return "", content.ErrMalformedOutline
	}
	if text[last+1:] == outlineSuffix {
		return text, nil
	}
	return text[:last+1] + outlineSuffix, nil
}

// removeWord deletes every standalone occurrence of word. Letters and digits
// of any script count as word characters, so "生成json格式" is left alone.
func removeWord(s, word string) string {
	var sb strings.Builder
	start := 0
	for {
		i := strings.Index(s[start:], word)
		if i == -1 {
			sb.WriteString(s[start:])
			return sb.String()
		}
		i += start
		end := i + len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		sb.WriteString(s[start:i])
		if (i > 0 && isWordRune(before)) || (end < len(s) && isWordRune(after)) {
			sb.WriteString(word)
		}
		start = end
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
