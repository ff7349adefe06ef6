package editor

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Language returns the name of the lexer chroma picks for path, or "" when
// it only has the plain text fallback.
func Language(path, content string) string {
	l := lexerFor(path, content)
	if l == nil {
		return ""
	}
	return l.Config().Name
}

func lexerFor(path, content string) chroma.Lexer {
	var lexer chroma.Lexer
	if path != "" {
		lexer = lexers.Match(filepath.Base(path))
	}
	if lexer == nil && content != "" {
		lexer = lexers.Analyse(content)
	}
	return lexer
}

// Highlight returns content split into terminal-colored lines. Tabs are
// expanded to tabWidth columns first so that widths stay predictable.
func Highlight(path, content, styleName string, tabWidth int) []string {
	content = ExpandTabs(content, tabWidth)

	lexer := lexerFor(path, content)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return strings.Split(content, "\n")
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return strings.Split(content, "\n")
	}

	lines := strings.Split(buf.String(), "\n")
	// Keep the line count of the source; formatters may add a trailing
	// newline or drop the final empty line.
	want := strings.Count(content, "\n") + 1
	for len(lines) < want {
		lines = append(lines, "")
	}
	return lines[:want]
}

// ExpandTabs replaces tabs with spaces up to the next multiple of width.
func ExpandTabs(s string, width int) string {
	if width <= 0 || !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
