// Package table converts Sideko resources into table data for pretty output.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sideko-inc/sideko/internal/cmd/emoji"
	"github.com/sideko-inc/sideko/internal/cmd/output"
	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

var title = cases.Title(language.English)

// APIs lists APIs with a link into the organization's portal.
func APIs(apis []sideko.API, subdomain string) output.Data {
	rows := make([][]string, 0, len(apis))
	for _, a := range apis {
		rows = append(rows, []string{
			a.Name,
			strconv.FormatInt(a.VersionCount, 10),
			sideko.APIURL(subdomain, a.Name, ""),
			a.CreatedAt,
		})
	}
	return output.Data{
		Title:           "apis",
		Headers:         []string{"Name", "Versions", emoji.Link + " link", "Created At"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight, output.AlignLeft, output.AlignLeft},
	}
}

// Specs lists API versions with a link into the organization's portal.
func Specs(specs []sideko.APISpec, subdomain string) output.Data {
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, []string{
			s.Version,
			s.API.Name,
			MockServer(s.MockServer),
			sideko.APIURL(subdomain, s.API.Name, s.Version),
		})
	}
	return output.Data{
		Title:   "api versions",
		Headers: []string{"version", "api", "mock server", emoji.Link + " link"},
		Rows:    rows,
	}
}

// MockServer renders a mock server's state and URL.
func MockServer(m sideko.MockServer) string {
	dot := emoji.Off
	if m.Enabled {
		dot = emoji.On
	}
	return strings.TrimSpace(dot + " " + m.URL)
}

// Docs lists doc projects with a link into the organization's portal.
func Docs(docs []sideko.DocProject, subdomain string) output.Data {
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{
			d.Name,
			https(d.Domains.Production),
			https(d.Domains.Preview),
			strconv.FormatInt(d.CurrentVersion.Version, 10),
			sideko.DocURL(subdomain, d.Name, 0),
			d.ID,
			d.CreatedAt,
		})
	}
	return output.Data{
		Title:   "docs",
		Headers: []string{"Name", "Production URL", "Preview URL", "Current Version", emoji.Link + " link", "ID", "Created At"},
		Rows:    rows,
	}
}

func https(host string) string {
	if host == "" {
		return ""
	}
	return "https://" + host
}

// Stats is a two-column summary of an API version.
func Stats(s *sideko.Stats) output.Data {
	schemes := "None"
	if len(s.AuthenticationSchemes) > 0 {
		schemes = strings.Join(s.AuthenticationSchemes, "; ")
	}
	return output.Data{
		Title: "Stats",
		Rows: [][]string{
			{"Total Endpoints (paths)", strconv.FormatInt(s.Endpoints, 10)},
			{"Total Methods (operation)", strconv.FormatInt(s.Methods, 10)},
			{"Authenticated Methods", strconv.FormatInt(s.AuthenticatedMethods, 10)},
			{"Public Methods", strconv.FormatInt(s.PublicMethods, 10)},
			{"Authentication Schemes", schemes},
		},
	}
}

// LintResults lists lint findings for filename.
func LintResults(filename string, results []sideko.LintResult) output.Data {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		loc := r.Location
		rows = append(rows, []string{
			severity(r.Severity),
			r.Category,
			r.Message,
			fmt.Sprintf("%s:%d:%d", filename, loc.StartLine, loc.StartColumn),
			loc.Path,
		})
	}
	return output.Data{
		Title:   filename + " Lint Results",
		Headers: []string{"Severity", "Category", "Message", "Location", "Path"},
		Rows:    rows,
	}
}

func severity(s sideko.LintSeverity) string {
	switch s {
	case sideko.LintError:
		return styles.Red(string(s))
	case sideko.LintWarn:
		return styles.Yellow(string(s))
	case sideko.LintInfo:
		return styles.Cyan(string(s))
	default:
		return string(s)
	}
}

// LintSummary counts findings per category, in first-seen order, followed
// by the server's totals.
func LintSummary(filename string, report *sideko.LintReport) output.Data {
	type counts struct{ errors, warns, infos int }
	var order []string
	byCategory := map[string]*counts{}

	for _, r := range report.Results {
		c, ok := byCategory[r.Category]
		if !ok {
			c = &counts{}
			byCategory[r.Category] = c
			order = append(order, r.Category)
		}
		switch r.Severity {
		case sideko.LintError:
			c.errors++
		case sideko.LintWarn:
			c.warns++
		case sideko.LintInfo:
			c.infos++
		}
	}

	rows := make([][]string, 0, len(order))
	for _, category := range order {
		c := byCategory[category]
		rows = append(rows, []string{title.String(category), strconv.Itoa(c.errors), strconv.Itoa(c.warns), strconv.Itoa(c.infos)})
	}
	return output.Data{
		Title:   filename + " Lint Summary",
		Headers: []string{"Category", styles.Red("Errors"), styles.Yellow("Warnings"), styles.Cyan("Info")},
		Rows:    rows,
		Footer: []string{
			"Total",
			strconv.FormatInt(report.Summary.Errors, 10),
			strconv.FormatInt(report.Summary.Warns, 10),
			strconv.FormatInt(report.Summary.Infos, 10),
		},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignRight},
	}
}

// Preview shows the first limit lines of text, with an ellipsis row when
// lines were cut.
func Preview(header, text string, limit int) output.Data {
	lines := strings.Split(text, "\n")
	shown := lines
	if len(lines) > limit {
		shown = append(append([]string{}, lines[:limit]...), "...")
	}
	return output.Data{
		Title: header,
		Rows:  [][]string{{strings.Join(shown, "\n")}},
	}
}
