package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	unsupportedFormatTemplateConstant = "unsupported report format: %s"

	// FormatText renders the human-readable report.
	FormatText = "text"
	// FormatYAML renders the report as a YAML document.
	FormatYAML = "yaml"
)

// Renderer writes a Report in one output format.
type Renderer interface {
	Render(output io.Writer, report Report) error
	// FileExtension is used when archiving the rendered report.
	FileExtension() string
}

// NewRenderer returns the renderer registered for format.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return TextRenderer{}, nil
	case FormatYAML:
		return YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplateConstant, format)
	}
}
