package dupfind

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer renders duplicate groups in one of the supported formats
type Printer struct {
	format string
	header *color.Color
}

// NewPrinter validates the format and colour mode names.
// ColorAuto leaves the decision to the terminal detection in fatih/color.
func NewPrinter(format, colorMode string) (*Printer, error) {
	resolvedFormat, ok := FormatFromName(format)
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s (supported: %v)", format, SupportedFormats())
	}
	resolvedColor, ok := ColorModeFromName(colorMode)
	if !ok {
		return nil, fmt.Errorf("unsupported color mode: %s (supported: auto, always, never)", colorMode)
	}

	header := color.New(color.Bold)
	switch resolvedColor {
	case ColorAlways:
		header.EnableColor()
	case ColorNever:
		header.DisableColor()
	}

	return &Printer{format: resolvedFormat, header: header}, nil
}

// Format returns the resolved output format name
func (p *Printer) Format() string {
	return p.format
}

// Print writes the groups of dupes to w, sorted by path
func (p *Printer) Print(w io.Writer, dupes Duplicates) error {
	groups := dupes.Groups()

	switch p.format {
	case FormatJSON:
		return p.printJSON(w, groups)
	case FormatFdupes:
		return writeLines(w, p.fdupesLines(groups))
	default:
		return writeLines(w, p.humanLines(groups))
	}
}

func (p *Printer) humanLines(groups []DuplicateGroup) [][]byte {
	lines := make([][]byte, 0, 1+len(groups)*2)
	lines = append(lines, []byte("Duplicate files:\n\n"))

	for i, group := range groups {
		lines = append(lines, []byte(p.header.Sprintf("Group ([%d/%d]):", i+1, len(groups))+"\n"))
		for _, path := range group.Files {
			lines = append(lines, []byte("\t- "+path+"\n"))
		}
		lines = append(lines, []byte("\n"))
	}

	return lines
}

// fdupesLines matches fdupes: one path per line, a blank line after each group
func (p *Printer) fdupesLines(groups []DuplicateGroup) [][]byte {
	var lines [][]byte
	for _, group := range groups {
		for _, path := range group.Files {
			lines = append(lines, []byte(path+"\n"))
		}
		lines = append(lines, []byte("\n"))
	}
	return lines
}

func (p *Printer) printJSON(w io.Writer, groups []DuplicateGroup) error {
	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal duplicate groups: %w", err)
	}
	data = append(data, '\n')
	return writeLines(w, [][]byte{data})
}
