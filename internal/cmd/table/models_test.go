package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

func init() {
	styles.Disable()
}

func TestSpecs(t *testing.T) {
	data := Specs([]sideko.APISpec{
		{Version: "1.0.0", API: sideko.API{Name: "petstore"}, MockServer: sideko.MockServer{Enabled: true, URL: "https://mock.sideko.dev/petstore"}},
		{Version: "0.9.0", API: sideko.API{Name: "petstore"}},
	}, "acme")

	assert.Equal(t, []string{"version", "api", "mock server", "🔗 link"}, data.Headers)
	assert.Equal(t, []string{"1.0.0", "petstore", "🟢 https://mock.sideko.dev/petstore", "https://acme.sideko.dev/apis/petstore/version/1.0.0"}, data.Rows[0])
	assert.Equal(t, "🔴", data.Rows[1][2])
}

func TestDocs(t *testing.T) {
	data := Docs([]sideko.DocProject{{
		ID:             "doc_1",
		Name:           "guides",
		Domains:        sideko.Domains{Production: "docs.acme.dev"},
		CurrentVersion: sideko.DocVersion{Version: 4},
		CreatedAt:      "2024-01-01",
	}}, "acme")
	assert.Equal(t, []string{"guides", "https://docs.acme.dev", "", "4", "https://acme.sideko.dev/docs/guides", "doc_1", "2024-01-01"}, data.Rows[0])
}

func TestStats(t *testing.T) {
	data := Stats(&sideko.Stats{Endpoints: 3, Methods: 7, AuthenticatedMethods: 5, PublicMethods: 2})
	assert.Equal(t, "Stats", data.Title)
	assert.Equal(t, []string{"Authentication Schemes", "None"}, data.Rows[4])

	data = Stats(&sideko.Stats{AuthenticationSchemes: []string{"bearer", "api key"}})
	assert.Equal(t, "bearer; api key", data.Rows[4][1])
}

func TestLintSummary(t *testing.T) {
	report := &sideko.LintReport{
		Results: []sideko.LintResult{
			{Category: "security", Severity: sideko.LintError},
			{Category: "naming", Severity: sideko.LintWarn},
			{Category: "security", Severity: sideko.LintInfo},
			{Category: "security", Severity: sideko.LintError},
		},
		Summary: sideko.LintSummary{Errors: 2, Warns: 1, Infos: 1},
	}

	data := LintSummary("openapi.yaml", report)
	assert.Equal(t, "openapi.yaml Lint Summary", data.Title)
	assert.Equal(t, [][]string{
		{"Security", "2", "0", "1"},
		{"Naming", "0", "1", "0"},
	}, data.Rows)
	assert.Equal(t, []string{"Total", "2", "1", "1"}, data.Footer)
}

func TestPreview(t *testing.T) {
	data := Preview("sdk configuration Preview", "a\nb\nc", 2)
	assert.Equal(t, "a\nb\n...", data.Rows[0][0])

	data = Preview("short", "a\nb", 5)
	assert.Equal(t, "a\nb", data.Rows[0][0])
}

func TestAPIs(t *testing.T) {
	data := APIs([]sideko.API{{Name: "petstore", VersionCount: 2, CreatedAt: "2024-01-01"}}, "acme")
	assert.Equal(t, "apis", data.Title)
	assert.Equal(t, []string{"petstore", "2", "https://acme.sideko.dev/apis/petstore", "2024-01-01"}, data.Rows[0])
}
