// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sideko-inc/sideko/internal/cmd/constants"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
)

// Format types for output.
type Format string

const (
	// FormatPretty renders tables.
	FormatPretty Format = constants.DisplayPretty
	// FormatRaw renders JSON.
	FormatRaw Format = constants.DisplayRaw
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	if format == FormatRaw {
		return &JSONFormatter{Indent: "  "}
	}
	return &TableFormatter{}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// TableFormatter outputs table format. Anything other than Data or []Data
// falls back to JSON.
type TableFormatter struct{}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(w, v)
	case *Data:
		return f.formatTable(w, *v)
	case []Data:
		for i, d := range v {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := f.formatTable(w, d); err != nil {
				return err
			}
		}
		return nil
	default:
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	if data.Title != "" {
		if _, err := fmt.Fprintln(w, styles.Bold(data.Title)); err != nil {
			return err
		}
	}

	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		twAlign := make([]tw.Align, len(data.ColumnAlignment))
		for i, align := range data.ColumnAlignment {
			switch align {
			case AlignLeft:
				twAlign[i] = tw.AlignLeft
			case AlignCenter:
				twAlign[i] = tw.AlignCenter
			case AlignRight:
				twAlign[i] = tw.AlignRight
			default:
				twAlign[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Footer.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(data.Headers) > 0 {
		table.Header(toAny(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := table.Append(toAny(row)...); err != nil {
			return err
		}
	}
	if len(data.Footer) > 0 {
		table.Footer(toAny(data.Footer)...)
	}
	return table.Render()
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment.
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents data formatted for table output.
type Data struct {
	Title           string
	Headers         []string
	Rows            [][]string
	Footer          []string
	ColumnAlignment []Align
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatRaw:
		return format, nil
	default:
		return "", fmt.Errorf("invalid display %q: must be one of: raw, pretty", s)
	}
}

// Write renders data to w: raw as JSON, pretty as the table built by
// pretty.
func Write(w io.Writer, format Format, raw any, pretty func() any) error {
	if format == FormatRaw {
		return NewFormatter(FormatRaw).Format(w, raw)
	}
	return NewFormatter(FormatPretty).Format(w, pretty())
}
