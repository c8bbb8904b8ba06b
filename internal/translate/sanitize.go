package translate

import (
	"regexp"
	"strings"
)

var (
	// (Note: ...) or [Note: ...] anywhere in the text
	reBracketedNote = regexp.MustCompile(`(?i)[\(\[]\s*(note|translator'?s? note|disclaimer)\s*:[^\)\]]*[\)\]]`)
	// a whole line starting with Note:
	reNoteLine = regexp.MustCompile(`(?im)^\s*(note|translator'?s? note|disclaimer)\s*:.*$`)
	reSpaces   = regexp.MustCompile(`[ \t]{2,}`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// SanitizeAIText strips machine-translation disclaimers that LLM backends
// like to add around the translation.
func SanitizeAIText(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = reBracketedNote.ReplaceAllString(s, "")
	s = reNoteLine.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	s = reNewlines.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
