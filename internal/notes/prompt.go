package notes

import "fmt"

// Style selects how detailed the generated notes are.
type Style string

const (
	StyleDefault   Style = "default"
	StyleConcise   Style = "concise"
	StyleDetailed  Style = "detailed"
	StyleKeyPoints Style = "key_points"
)

// Styles lists the known presets in display order.
var Styles = []Style{StyleDefault, StyleConcise, StyleDetailed, StyleKeyPoints}

const promptPrefix = `Generate structured lecture notes from the following transcript:

- Format the notes into sections with bullet points.
- Use clear headings and subheadings.
- Summarize key concepts, definitions, and examples.
`

var styleSuffix = map[Style]string{
	StyleConcise:   "- Keep the notes brief and to the point.",
	StyleDetailed:  "- Provide comprehensive explanations and examples.",
	StyleKeyPoints: "- Focus on the most important concepts and takeaways.",
	StyleDefault:   "",
}

// ParseStyle maps free-form input onto a known style. Empty and unknown
// values become StyleDefault.
func ParseStyle(s string) Style {
	st := Style(s)
	if _, ok := styleSuffix[st]; ok {
		return st
	}
	return StyleDefault
}

// Label returns a human-readable name for the style.
func (s Style) Label() string {
	switch s {
	case StyleConcise:
		return "Concise"
	case StyleDetailed:
		return "Detailed"
	case StyleKeyPoints:
		return "Key points"
	default:
		return "Default"
	}
}

// FormatPrompt builds the LLM prompt for a transcript in the given style.
func FormatPrompt(transcript string, style Style) string {
	return fmt.Sprintf("%s\n%s\n\nLecture Transcript:\n%s", promptPrefix, styleSuffix[style], transcript)
}
