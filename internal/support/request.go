package support

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuildRequest renders the backend input for mode. transcript ends with the
// message being answered.
func BuildRequest(mode Mode, transcript []Message) string {
	switch mode {
	case ModeContextAware:
		return historyRequest(ContextAwarePreamble, transcript)
	case ModeStrategic:
		return historyRequest(StrategicPreamble, transcript)
	default:
		return ReactivePreamble + "\n\nCustomer: " + latestUserMessage(transcript)
	}
}

// historyRequest resends the whole transcript; there is no windowing.
func historyRequest(preamble string, transcript []Message) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\nFull Conversation:\n")
	for i, m := range transcript {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(roleLabel(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

func latestUserMessage(transcript []Message) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == RoleUser {
			return transcript[i].Content
		}
	}
	return ""
}

func roleLabel(r Role) string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	}
	return cases.Title(language.English).String(string(r))
}

func TitleRequest(firstMessage string) string {
	return TitlePrompt + firstMessage
}

// CleanTitle trims quotes and whitespace, title-cases and caps the length.
// An empty result means the caller should fall back to DefaultTitle.
func CleanTitle(raw string) string {
	t := strings.Trim(strings.TrimSpace(raw), `"'`)
	t = cases.Title(language.English).String(t)
	if utf8.RuneCountInString(t) > MaxTitleLength {
		t = string([]rune(t)[:MaxTitleLength])
	}
	return strings.TrimSpace(t)
}

// FailureMessage is stored in place of a reply the backend could not produce.
func FailureMessage(err error) string {
	return FailurePrefix + "\n\n" + err.Error()
}
