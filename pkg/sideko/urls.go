package sideko

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sideko-inc/sideko/pkg/constants"
)

var filenamePattern = regexp.MustCompile(`filename=["']([^"']+)["']`)

// ExtractFilename reads the quoted filename of a Content-Disposition header
// such as `attachment; filename="sdk.tar.gz"`. It reports false when the
// header is missing or malformed.
func ExtractFilename(resp *BinaryResponse) (string, bool) {
	if resp == nil || resp.Header == nil {
		return "", false
	}
	disposition := resp.Header.Get("Content-Disposition")
	if disposition == "" {
		return "", false
	}
	match := filenamePattern.FindStringSubmatch(disposition)
	if match == nil || strings.TrimSpace(match[1]) == "" {
		return "", false
	}
	return match[1], true
}

// APIURL links to an API, or one of its versions when version is set, in
// the organization's Sideko portal.
func APIURL(subdomain, name, version string) string {
	u := fmt.Sprintf("https://%s.%s/apis/%s", subdomain, constants.DocsDomain, name)
	if version != "" {
		u += "/version/" + version
	}
	return u
}

// DocURL links to a doc project, or one of its versions when version > 0.
func DocURL(subdomain, name string, version int64) string {
	u := fmt.Sprintf("https://%s.%s/docs/%s", subdomain, constants.DocsDomain, name)
	if version > 0 {
		u += fmt.Sprintf("/%d", version)
	}
	return u
}

// SiteURL is where a deployment to target is served, or "" when the project
// has no domain for it.
func SiteURL(doc *DocProject, target DeploymentTarget) string {
	host := doc.Domains.Preview
	if target == TargetProduction {
		host = doc.Domains.Production
	}
	if host == "" {
		return ""
	}
	return "https://" + host
}
