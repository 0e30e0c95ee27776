// Package deploy triggers documentation deployments and follows them until
// the server reports a terminal status.
package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sideko-inc/sideko/internal/cmd/emoji"
	"github.com/sideko-inc/sideko/internal/cmd/spinner"
	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

// API is the part of the Sideko API deployments need.
type API interface {
	GetDoc(ctx context.Context, name string) (*sideko.DocProject, error)
	TriggerDeployment(ctx context.Context, r sideko.TriggerDeploymentRequest) (*sideko.Deployment, error)
	GetDeployment(ctx context.Context, docName, deploymentID string) (*sideko.Deployment, error)
}

// Progress reports the observed status to the user.
type Progress interface {
	UpdateText(text string)
	StopSuccess(msg string)
	StopWarn(msg string)
	StopError(msg string)
}

// Poller follows deployments.
type Poller struct {
	api           API
	logger        *zerolog.Logger
	interval      time.Duration
	deadline      time.Duration
	startProgress func(text string) Progress
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the pause between status checks.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithDeadline sets the total time allowed for a deployment.
func WithDeadline(d time.Duration) Option {
	return func(p *Poller) {
		p.deadline = d
	}
}

// WithProgress replaces the spinner.
func WithProgress(start func(text string) Progress) Option {
	return func(p *Poller) {
		p.startProgress = start
	}
}

// NewPoller creates a Poller.
func NewPoller(api API, logger *zerolog.Logger, opts ...Option) *Poller {
	p := &Poller{
		api:      api,
		logger:   logger,
		interval: constants.DeploymentPollInterval,
		deadline: constants.DeploymentTimeout,
	}
	p.startProgress = func(text string) Progress {
		return spinner.Start(text, logger)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request describes a deployment to start.
type Request struct {
	DocName string
	Target  sideko.DeploymentTarget
	NoWait  bool
}

// Result is a started or finished deployment.
type Result struct {
	Doc        *sideko.DocProject
	Deployment *sideko.Deployment
	// SiteURL is where the deployment is served; empty when not waited on
	// or when the project has no domain for the target.
	SiteURL string
}

// Deploy triggers a deployment of the named project and, unless NoWait is
// set, waits for it to complete.
func (p *Poller) Deploy(ctx context.Context, r Request) (*Result, error) {
	doc, err := p.api.GetDoc(ctx, r.DocName)
	if err != nil {
		return nil, err
	}

	d, err := p.api.TriggerDeployment(ctx, sideko.TriggerDeploymentRequest{
		DocName: r.DocName,
		Target:  r.Target,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info().Msgf("%s deployment triggered", strings.ToLower(string(r.Target)))
	if len(d.Metadata) > 0 {
		p.logger.Debug().RawJSON("metadata", d.Metadata).Msg("deployment metadata")
	}

	result := &Result{Doc: doc, Deployment: d}
	if r.NoWait {
		p.logger.Info().Msg("--no-wait specified, not polling until completion")
		return result, nil
	}

	final, err := p.Wait(ctx, r.DocName, d)
	if err != nil {
		return nil, err
	}
	result.Deployment = final
	result.SiteURL = sideko.SiteURL(doc, r.Target)
	if result.SiteURL != "" {
		p.logger.Info().Msgf("site available at: %s", result.SiteURL)
	}
	return result, nil
}

// Wait polls d until it reaches a terminal status. Cancelled and Error end
// in a DeploymentError; running out of time ends in a TimeoutError, even
// when a status request is still in flight; cancellation of ctx abandons
// the deployment.
func (p *Poller) Wait(ctx context.Context, docName string, d *sideko.Deployment) (*sideko.Deployment, error) {
	dctx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()

	current := d
	progress := p.startProgress(statusText(current.Status))

	for {
		if current.Status.IsTerminal() {
			return p.finish(progress, current)
		}

		select {
		case <-dctx.Done():
			return nil, p.stopped(ctx, progress, current)
		case <-time.After(p.interval):
		}

		next, err := p.api.GetDeployment(dctx, docName, current.ID)
		if err != nil {
			if dctx.Err() != nil {
				return nil, p.stopped(ctx, progress, current)
			}
			progress.StopError("deployment failed")
			return nil, err
		}
		// a stale read never moves the display backwards
		if next.Status.Rank() < current.Status.Rank() {
			p.logger.Debug().Str("status", string(next.Status)).Msg("ignoring out of order deployment status")
			continue
		}
		current = next
		progress.UpdateText(statusText(current.Status))
	}
}

// stopped reports why polling ended early: the caller gave up, or the
// deadline passed.
func (p *Poller) stopped(ctx context.Context, progress Progress, current *sideko.Deployment) error {
	if ctx.Err() != nil {
		progress.StopWarn("deployment polling abandoned")
		return &errors.DeploymentError{
			Kind:       errors.ErrAbandoned,
			Status:     string(current.Status),
			Deployment: render(current),
		}
	}
	progress.StopError("deployment timed out")
	return errors.NewTimeoutError("deployment", "timeout: deployment did not complete within "+formatDeadline(p.deadline))
}

// formatDeadline renders whole minutes as "10min" and anything else in
// Go duration notation.
func formatDeadline(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%dmin", int(d/time.Minute))
	}
	return d.String()
}

func (p *Poller) finish(progress Progress, d *sideko.Deployment) (*sideko.Deployment, error) {
	switch d.Status {
	case sideko.StatusComplete:
		progress.StopSuccess(emoji.Prefix(emoji.Book, "deployment complete."))
		return d, nil
	case sideko.StatusCancelled:
		progress.StopWarn("deployment has been cancelled")
		return nil, &errors.DeploymentError{
			Kind:       errors.ErrDeploymentCancelled,
			Status:     string(d.Status),
			Deployment: render(d),
		}
	default:
		progress.StopError("deployment failed")
		return nil, &errors.DeploymentError{
			Kind:       errors.ErrDeploymentFailed,
			Status:     string(d.Status),
			Deployment: render(d),
		}
	}
}

func statusText(s sideko.DeploymentStatus) string {
	return emoji.Prefix(emoji.Book, "deployment "+strings.ToLower(string(s)))
}

func render(d *sideko.Deployment) string {
	data, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(data)
}
