package conversation

import (
	"fmt"
	"regexp"
	"strings"
)

// ResetNotice is shown when a language change discarded the history
const ResetNotice = "Zmieniono język rozmowy. Historia konwersacji została zresetowana."

const systemPromptFormat = "Please respond concisely in %s. You are a tax expert specializing in PCC-3 form transactions. " +
	"Only answer questions related to tax matters. If a user asks about non-tax topics, " +
	"reply briefly by stating that you can only assist with tax-related queries."

var languagePattern = regexp.MustCompile(`in ([\p{L}\p{N}_]+)`)

// SystemPrompt returns the instruction sent ahead of every transcript
func SystemPrompt(language string) string {
	return fmt.Sprintf(systemPromptFormat, language)
}

// ParseLanguage returns the word following the first "in " in content, or
// "" when there is none.
func ParseLanguage(content string) string {
	m := languagePattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
}

// DetectLanguage reports the language a stored transcript was conducted in.
// The explicit field wins; older transcripts that open with a system entry
// are parsed. Anything else yields "".
func DetectLanguage(state State) string {
	if state.Language != "" {
		return state.Language
	}
	if len(state.Messages) == 0 || state.Messages[0].Role != RoleSystem {
		return ""
	}
	return ParseLanguage(state.Messages[0].Content)
}

func sameLanguage(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
