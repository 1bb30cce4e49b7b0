package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/beanledger/ledger"
)

var errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})

// ErrorRenderer renders validation errors with terminal styling and a few
// lines of source context around the offending directive.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error, with source context when the error carries
// a position inside the rendered file.
func (r *ErrorRenderer) Render(err error) string {
	var validationErr *ledger.ValidationError
	if ok := asValidation(err, &validationErr); ok && r.source != nil {
		return r.renderWithSourceContext(validationErr)
	}
	return errorStyle.Render(err.Error())
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func asValidation(err error, target **ledger.ValidationError) bool {
	if e, ok := err.(*ledger.ValidationError); ok {
		*target = e
		return true
	}
	return false
}

func (r *ErrorRenderer) renderWithSourceContext(err *ledger.ValidationError) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(err.Error()))

	sourceLines := strings.Split(string(r.source), "\n")
	line := err.Pos.Line
	if line < 1 || line > len(sourceLines) {
		return buf.String()
	}
	buf.WriteString("\n\n")

	startLine := line - 2
	if startLine < 1 {
		startLine = 1
	}
	endLine := line + 1
	if endLine > len(sourceLines) {
		endLine = len(sourceLines)
	}

	for i := startLine; i <= endLine; i++ {
		buf.WriteString("   ")
		if i == line {
			buf.WriteString(sourceLines[i-1])
		} else {
			buf.WriteString(errContextStyle.Render(sourceLines[i-1]))
		}
		buf.WriteByte('\n')
	}

	return buf.String()
}
