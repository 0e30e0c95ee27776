package sideko

import (
	"context"
	"net/http"

	"github.com/sideko-inc/sideko/internal/transport"
)

// ListDocs returns every doc project of the organization.
func (c *Client) ListDocs(ctx context.Context) ([]DocProject, error) {
	var docs []DocProject
	if err := c.call(ctx, http.MethodGet, "doc_project", nil, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDoc returns a doc project by name or id.
func (c *Client) GetDoc(ctx context.Context, name string) (*DocProject, error) {
	var doc DocProject
	if err := c.call(ctx, http.MethodGet, segment("doc_project", name), nil, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// TriggerDeploymentRequest starts a deployment of a doc project.
type TriggerDeploymentRequest struct {
	DocName      string           `json:"-"`
	Target       DeploymentTarget `json:"target"`
	DocVersionID string           `json:"doc_version_id,omitempty"`
}

// TriggerDeployment starts a deployment and returns it in its initial status.
func (c *Client) TriggerDeployment(ctx context.Context, r TriggerDeploymentRequest) (*Deployment, error) {
	var d Deployment
	path := segment("doc_project", r.DocName, "deployment")
	if err := c.call(ctx, http.MethodPost, path, nil, transport.JSONBody{Value: r}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDeployment returns the current state of a deployment.
func (c *Client) GetDeployment(ctx context.Context, docName, deploymentID string) (*Deployment, error) {
	var d Deployment
	path := segment("doc_project", docName, "deployment", deploymentID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
