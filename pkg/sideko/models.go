package sideko

import (
	"encoding/json"
	"strings"
)

// API is a named product registered with Sideko.
type API struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	VersionCount int64  `json:"version_count"`
	CreatedAt    string `json:"created_at"`
}

// MockServer describes the hosted mock server of an API version.
type MockServer struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
}

// APISpec is one version of an API, backed by an OpenAPI document.
type APISpec struct {
	ID         string     `json:"id"`
	Version    string     `json:"version"`
	Notes      string     `json:"notes,omitempty"`
	API        API        `json:"api"`
	MockServer MockServer `json:"mock_server"`
	CreatedAt  string     `json:"created_at,omitempty"`
}

// Stats summarizes the operations of an API version.
type Stats struct {
	Endpoints             int64    `json:"endpoints"`
	Methods               int64    `json:"methods"`
	AuthenticatedMethods  int64    `json:"authenticated_methods"`
	PublicMethods         int64    `json:"public_methods"`
	AuthenticationSchemes []string `json:"authentication_schemes"`
}

// OpenAPIDocument is the raw OpenAPI text of an API version.
type OpenAPIDocument struct {
	OpenAPI   string `json:"openapi"`
	Extension string `json:"extension"`
}

// LintSeverity classifies a lint result.
type LintSeverity string

// Lint severities.
const (
	LintError LintSeverity = "error"
	LintWarn  LintSeverity = "warn"
	LintInfo  LintSeverity = "info"
)

// LintLocation points at the offending part of a document.
type LintLocation struct {
	Path        string `json:"path"`
	StartLine   int64  `json:"start_line"`
	StartColumn int64  `json:"start_column"`
	EndLine     int64  `json:"end_line"`
	EndColumn   int64  `json:"end_column"`
}

// LintResult is a single lint finding.
type LintResult struct {
	Category string       `json:"category"`
	Severity LintSeverity `json:"severity"`
	Message  string       `json:"message"`
	Location LintLocation `json:"location"`
}

// LintSummary counts lint results by severity.
type LintSummary struct {
	Errors int64 `json:"errors"`
	Warns  int64 `json:"warns"`
	Infos  int64 `json:"infos"`
}

// LintReport is the result of linting an OpenAPI document.
type LintReport struct {
	Results []LintResult `json:"results"`
	Summary LintSummary  `json:"summary"`
}

// OrgFeatures are the plan-dependent capabilities of an organization.
type OrgFeatures struct {
	MaxSDKAPIMethods   int64 `json:"max_sdk_api_methods"`
	AllowSDKPython     bool  `json:"allow_sdk_python"`
	AllowSDKTypescript bool  `json:"allow_sdk_typescript"`
	AllowSDKGo         bool  `json:"allow_sdk_go"`
	AllowSDKCsharp     bool  `json:"allow_sdk_csharp"`
	AllowSDKRust       bool  `json:"allow_sdk_rust"`
	AllowSDKJava       bool  `json:"allow_sdk_java"`
}

// Allows reports whether the organization's plan includes lang.
func (f OrgFeatures) Allows(lang Language) bool {
	switch lang {
	case LanguagePython:
		return f.AllowSDKPython
	case LanguageTypescript:
		return f.AllowSDKTypescript
	case LanguageGo:
		return f.AllowSDKGo
	case LanguageCsharp:
		return f.AllowSDKCsharp
	case LanguageRust:
		return f.AllowSDKRust
	case LanguageJava:
		return f.AllowSDKJava
	default:
		return false
	}
}

// Organization is the caller's organization.
type Organization struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Subdomain string      `json:"subdomain"`
	Features  OrgFeatures `json:"features"`
}

// Domains are the hostnames a doc project is served from.
type Domains struct {
	Production string `json:"production,omitempty"`
	Preview    string `json:"preview,omitempty"`
}

// DocVersion is a published revision of a doc project.
type DocVersion struct {
	ID           string `json:"id"`
	Version      int64  `json:"version"`
	DocProjectID string `json:"doc_project_id"`
}

// DocProject is a documentation website.
type DocProject struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Domains        Domains    `json:"domains"`
	CurrentVersion DocVersion `json:"current_version"`
	CreatedAt      string     `json:"created_at"`
}

// DeploymentStatus is the server-side state of a deployment.
type DeploymentStatus string

// Deployment statuses.
const (
	StatusCreated   DeploymentStatus = "Created"
	StatusGenerated DeploymentStatus = "Generated"
	StatusBuilding  DeploymentStatus = "Building"
	StatusComplete  DeploymentStatus = "Complete"
	StatusCancelled DeploymentStatus = "Cancelled"
	StatusError     DeploymentStatus = "Error"
)

var deploymentStatuses = []DeploymentStatus{
	StatusCreated, StatusGenerated, StatusBuilding, StatusComplete, StatusCancelled, StatusError,
}

// UnmarshalJSON normalizes the casing of known statuses.
func (s *DeploymentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseDeploymentStatus(raw)
	return nil
}

// ParseDeploymentStatus matches raw case-insensitively against the known
// statuses. Unknown values are kept verbatim.
func ParseDeploymentStatus(raw string) DeploymentStatus {
	for _, known := range deploymentStatuses {
		if strings.EqualFold(raw, string(known)) {
			return known
		}
	}
	return DeploymentStatus(raw)
}

// IsTerminal reports whether the server will not change the status again.
func (s DeploymentStatus) IsTerminal() bool {
	switch s {
	case StatusComplete, StatusCancelled, StatusError:
		return true
	default:
		return false
	}
}

// Rank orders statuses along the deployment lifecycle. Terminal statuses
// share the highest rank.
func (s DeploymentStatus) Rank() int {
	switch s {
	case StatusCreated:
		return 0
	case StatusGenerated:
		return 1
	case StatusBuilding:
		return 2
	case StatusComplete, StatusCancelled, StatusError:
		return 3
	default:
		return -1
	}
}

// DeploymentTarget is where a deployment is published.
type DeploymentTarget string

// Deployment targets.
const (
	TargetPreview    DeploymentTarget = "Preview"
	TargetProduction DeploymentTarget = "Production"
)

// UnmarshalJSON normalizes the casing of known targets.
func (t *DeploymentTarget) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case strings.EqualFold(raw, string(TargetPreview)):
		*t = TargetPreview
	case strings.EqualFold(raw, string(TargetProduction)):
		*t = TargetProduction
	default:
		*t = DeploymentTarget(raw)
	}
	return nil
}

// Deployment is a documentation build and publish job.
type Deployment struct {
	ID         string           `json:"id"`
	Status     DeploymentStatus `json:"status"`
	Target     DeploymentTarget `json:"target"`
	DocVersion DocVersion       `json:"doc_version"`
	Metadata   json.RawMessage  `json:"metadata,omitempty"`
	CreatedAt  string           `json:"created_at,omitempty"`
}

// Language is an SDK target language.
type Language string

// Supported SDK languages, in the order they are offered.
const (
	LanguagePython     Language = "python"
	LanguageTypescript Language = "typescript"
	LanguageGo         Language = "go"
	LanguageCsharp     Language = "csharp"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
)

// Languages returns every supported SDK language.
func Languages() []Language {
	return []Language{LanguagePython, LanguageTypescript, LanguageGo, LanguageCsharp, LanguageRust, LanguageJava}
}

// ParseLanguage validates s as a supported language.
func ParseLanguage(s string) (Language, bool) {
	for _, lang := range Languages() {
		if strings.EqualFold(s, string(lang)) {
			return lang, true
		}
	}
	return "", false
}

// Emoji is the glyph shown next to a language.
func (l Language) Emoji() string {
	switch l {
	case LanguagePython:
		return "🐍"
	case LanguageTypescript:
		return "🟦"
	case LanguageGo:
		return "🐹"
	case LanguageCsharp:
		return "#️⃣"
	case LanguageRust:
		return "🦀"
	case LanguageJava:
		return "☕️"
	default:
		return "📦"
	}
}

// ModuleStructure selects how generated SDK modules are derived.
type ModuleStructure string

// Module structures.
const (
	ModulePath ModuleStructure = "path"
	ModuleTag  ModuleStructure = "tag"
	ModuleFlat ModuleStructure = "flat"
)

// ParseModuleStructure validates s as a module structure.
func ParseModuleStructure(s string) (ModuleStructure, bool) {
	switch ModuleStructure(strings.ToLower(s)) {
	case ModulePath:
		return ModulePath, true
	case ModuleTag:
		return ModuleTag, true
	case ModuleFlat:
		return ModuleFlat, true
	default:
		return "", false
	}
}

// SDK is a generated SDK known to the server.
type SDK struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Language Language `json:"language"`
	Version  string   `json:"version"`
	Released bool     `json:"released"`
}

// APIKey holds a credential. It never renders its value.
type APIKey struct {
	APIKey string `json:"api_key"`
}

// String implements fmt.Stringer.
func (k APIKey) String() string {
	return "APIKey(********)"
}

// MarshalJSON masks the credential.
func (k APIKey) MarshalJSON() ([]byte, error) {
	return []byte(`{"api_key":"********"}`), nil
}

// UpdateSeverity is the urgency of a CLI update notice.
type UpdateSeverity string

// Update severities.
const (
	SeverityInfo      UpdateSeverity = "info"
	SeveritySuggested UpdateSeverity = "suggested"
	SeverityRequired  UpdateSeverity = "required"
)

// UnmarshalJSON normalizes the casing of known severities.
func (s *UpdateSeverity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = UpdateSeverity(strings.ToLower(raw))
	return nil
}

// CLIUpdate is a server notice about the running CLI version.
type CLIUpdate struct {
	Severity UpdateSeverity `json:"severity"`
	Message  string         `json:"message"`
}

// ErrorBody is the structured body of a failed request.
type ErrorBody struct {
	Description string `json:"description"`
}
