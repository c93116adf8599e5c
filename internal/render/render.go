// Package render turns generated notes into display markup.
package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// InBandErrorPrefix marks a notes payload that is really an error message.
const InBandErrorPrefix = "Error:"

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*]+)\*`)
)

// IsInBandError reports whether notes carries an error instead of content.
func IsInBandError(notes string) bool {
	return strings.HasPrefix(notes, InBandErrorPrefix)
}

// Light applies the small markdown subset the notes panel understands:
// "- " list items become bullets, **bold** and *italic* become tags, and
// line breaks become <br>. Input is HTML-escaped first.
func Light(notes string) string {
	lines := strings.Split(strings.ReplaceAll(notes, "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = html.EscapeString(line)
		if rest, ok := strings.CutPrefix(line, "- "); ok {
			line = "• " + rest
		}
		line = boldPattern.ReplaceAllString(line, "<strong>$1</strong>")
		line = italicPattern.ReplaceAllString(line, "<em>$1</em>")
		lines[i] = line
	}
	return strings.Join(lines, "<br>")
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// HTML renders notes as full CommonMark+GFM. Raw HTML in the notes is
// dropped.
func HTML(notes string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(notes), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<style>body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;line-height:1.6;padding:0 1rem}pre{overflow-x:auto}</style>
</head>
<body>
%s</body>
</html>
`

// Page wraps rendered notes in a standalone HTML document.
func Page(title, notes string) (string, error) {
	body, err := HTML(notes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(title), body), nil
}
