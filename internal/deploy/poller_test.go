package deploy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/logging"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) UpdateText(text string) { r.add("text " + text) }
func (r *recorder) StopSuccess(msg string) { r.add("success " + msg) }
func (r *recorder) StopWarn(msg string)    { r.add("warn " + msg) }
func (r *recorder) StopError(msg string)   { r.add("error " + msg) }

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// fakeAPI serves a scripted series of statuses for one deployment.
type fakeAPI struct {
	doc      sideko.DocProject
	statuses []sideko.DeploymentStatus
	polls    atomic.Int32
	trigger  sideko.TriggerDeploymentRequest
}

func (f *fakeAPI) GetDoc(_ context.Context, name string) (*sideko.DocProject, error) {
	if name != f.doc.Name {
		return nil, pkgerrors.ErrNotFound
	}
	return &f.doc, nil
}

func (f *fakeAPI) TriggerDeployment(_ context.Context, r sideko.TriggerDeploymentRequest) (*sideko.Deployment, error) {
	f.trigger = r
	return &sideko.Deployment{ID: "dep_1", Status: f.statuses[0], Target: r.Target}, nil
}

func (f *fakeAPI) GetDeployment(_ context.Context, _, id string) (*sideko.Deployment, error) {
	n := int(f.polls.Add(1))
	if n >= len(f.statuses) {
		n = len(f.statuses) - 1
	}
	return &sideko.Deployment{ID: id, Status: f.statuses[n]}, nil
}

func newTestPoller(api API, rec *recorder, logger *logging.TestLogger, opts ...Option) *Poller {
	base := []Option{
		WithInterval(time.Millisecond),
		WithDeadline(5 * time.Second),
		WithProgress(func(text string) Progress {
			rec.add("start " + text)
			return rec
		}),
	}
	return NewPoller(api, logger.Logger, append(base, opts...)...)
}

func TestDeployToComplete(t *testing.T) {
	api := &fakeAPI{
		doc: sideko.DocProject{Name: "my-docs", Domains: sideko.Domains{
			Production: "docs.acme.dev",
			Preview:    "preview.acme.dev",
		}},
		statuses: []sideko.DeploymentStatus{
			sideko.StatusCreated, sideko.StatusBuilding, sideko.StatusBuilding, sideko.StatusComplete,
		},
	}
	rec := &recorder{}
	logger := logging.NewTestLogger(t)

	result, err := newTestPoller(api, rec, logger).Deploy(context.Background(), Request{
		DocName: "my-docs",
		Target:  sideko.TargetProduction,
	})
	require.NoError(t, err)

	assert.Equal(t, sideko.StatusComplete, result.Deployment.Status)
	assert.Equal(t, "https://docs.acme.dev", result.SiteURL)
	assert.Equal(t, sideko.TargetProduction, api.trigger.Target)
	assert.Equal(t, []string{
		"start 📖 deployment created",
		"text 📖 deployment building",
		"text 📖 deployment building",
		"text 📖 deployment complete",
		"success 📖 deployment complete.",
	}, rec.Events())
	logger.AssertContains(t, "production deployment triggered")
	logger.AssertContains(t, "site available at: https://docs.acme.dev")
}

func TestDeployNoWait(t *testing.T) {
	api := &fakeAPI{
		doc:      sideko.DocProject{Name: "my-docs", Domains: sideko.Domains{Preview: "preview.acme.dev"}},
		statuses: []sideko.DeploymentStatus{sideko.StatusCreated},
	}
	rec := &recorder{}
	logger := logging.NewTestLogger(t)

	result, err := newTestPoller(api, rec, logger).Deploy(context.Background(), Request{
		DocName: "my-docs",
		Target:  sideko.TargetPreview,
		NoWait:  true,
	})
	require.NoError(t, err)
	assert.Empty(t, result.SiteURL)
	assert.Zero(t, api.polls.Load())
	assert.Empty(t, rec.Events())
	logger.AssertContains(t, "--no-wait specified, not polling until completion")
	logger.AssertNotContains(t, "site available at")
}

func TestWaitTerminalFailures(t *testing.T) {
	tests := []struct {
		name      string
		final     sideko.DeploymentStatus
		kind      error
		stopEvent string
	}{
		{"cancelled", sideko.StatusCancelled, pkgerrors.ErrDeploymentCancelled, "warn deployment has been cancelled"},
		{"error", sideko.StatusError, pkgerrors.ErrDeploymentFailed, "error deployment failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{statuses: []sideko.DeploymentStatus{sideko.StatusCreated, tt.final}}
			rec := &recorder{}
			p := newTestPoller(api, rec, logging.NewTestLogger(t))

			_, err := p.Wait(context.Background(), "my-docs", &sideko.Deployment{ID: "dep_1", Status: sideko.StatusCreated})
			require.Error(t, err)
			assert.True(t, pkgerrors.Is(err, tt.kind))
			assert.Equal(t, "deployment polling terminated in `"+string(tt.final)+"` status", err.Error())
			assert.Contains(t, pkgerrors.DebugInfo(err), `"id":"dep_1"`)

			events := rec.Events()
			assert.Equal(t, tt.stopEvent, events[len(events)-1])
		})
	}
}

func TestWaitIgnoresStatusRegression(t *testing.T) {
	api := &fakeAPI{statuses: []sideko.DeploymentStatus{
		sideko.StatusCreated, sideko.StatusBuilding, sideko.StatusGenerated, sideko.StatusComplete,
	}}
	rec := &recorder{}

	d, err := newTestPoller(api, rec, logging.NewTestLogger(t)).
		Wait(context.Background(), "my-docs", &sideko.Deployment{ID: "dep_1", Status: sideko.StatusCreated})
	require.NoError(t, err)
	assert.Equal(t, sideko.StatusComplete, d.Status)
	assert.NotContains(t, rec.Events(), "text 📖 deployment generated")
}

func TestWaitTimeout(t *testing.T) {
	api := &fakeAPI{statuses: []sideko.DeploymentStatus{sideko.StatusBuilding}}
	rec := &recorder{}
	logger := logging.NewTestLogger(t)

	_, err := newTestPoller(api, rec, logger, WithDeadline(30*time.Millisecond), WithInterval(5*time.Millisecond)).
		Wait(context.Background(), "my-docs", &sideko.Deployment{ID: "dep_1", Status: sideko.StatusBuilding})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.Equal(t, "timeout: deployment did not complete within 30ms", err.Error())
	logger.AssertNotContains(t, "site available at")
}

// stallingAPI never answers a status request until its context ends.
type stallingAPI struct {
	fakeAPI
	sawCancel atomic.Bool
}

func (s *stallingAPI) GetDeployment(ctx context.Context, _, _ string) (*sideko.Deployment, error) {
	select {
	case <-ctx.Done():
		s.sawCancel.Store(true)
		return nil, &pkgerrors.GeneralError{Message: "failed to reach the sideko api", Err: ctx.Err()}
	case <-time.After(2 * time.Second):
		return &sideko.Deployment{ID: "dep_1", Status: sideko.StatusBuilding}, nil
	}
}

func TestWaitTimeoutCutsOffStalledRequest(t *testing.T) {
	api := &stallingAPI{}
	rec := &recorder{}

	start := time.Now()
	_, err := newTestPoller(api, rec, logging.NewTestLogger(t), WithDeadline(100*time.Millisecond)).
		Wait(context.Background(), "my-docs", &sideko.Deployment{ID: "dep_1", Status: sideko.StatusBuilding})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsTimeout(err), "got %v", err)
	assert.Equal(t, "timeout: deployment did not complete within 100ms", err.Error())
	assert.Less(t, elapsed, time.Second)
	assert.True(t, api.sawCancel.Load(), "in-flight request was not abandoned")
	assert.Equal(t, "error deployment timed out", rec.Events()[len(rec.Events())-1])
}

func TestWaitCancelledDuringStalledRequest(t *testing.T) {
	api := &stallingAPI{}
	rec := &recorder{}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestPoller(api, rec, logging.NewTestLogger(t)).
		Wait(ctx, "my-docs", &sideko.Deployment{ID: "dep_1", Status: sideko.StatusBuilding})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrAbandoned))
	assert.False(t, pkgerrors.IsTimeout(err))
}

func TestFormatDeadline(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{10 * time.Minute, "10min"},
		{time.Minute, "1min"},
		{90 * time.Second, "1m30s"},
		{100 * time.Millisecond, "100ms"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDeadline(tt.in))
	}
}

func TestWaitAbandoned(t *testing.T) {
	api := &fakeAPI{statuses: []sideko.DeploymentStatus{sideko.StatusBuilding}}
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPoller(api, rec, logging.NewTestLogger(t)).
		Wait(ctx, "my-docs", &sideko.Deployment{ID: "dep_1", Status: sideko.StatusBuilding})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrAbandoned))
	assert.False(t, pkgerrors.IsTimeout(err))
}

func TestDeployAgainstServer(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /doc_project/my-docs", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "doc_1",
			"name":    "my-docs",
			"domains": map[string]string{"preview": "preview.acme.dev"},
		})
	})
	mux.HandleFunc("POST /doc_project/my-docs/deployment", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "Preview", body["target"])
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "dep_9", "status": "created", "target": "preview"})
	})
	mux.HandleFunc("GET /doc_project/my-docs/deployment/dep_9", func(w http.ResponseWriter, _ *http.Request) {
		status := "building"
		if polls.Add(1) >= 2 {
			status = "complete"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "dep_9", "status": status})
	})
	srv := httptest.NewServer(http.StripPrefix("/v1", mux))
	defer srv.Close()

	client := sideko.NewClient(srv.URL+"/v1", "sk_test")
	rec := &recorder{}
	result, err := newTestPoller(client, rec, logging.NewTestLogger(t)).Deploy(context.Background(), Request{
		DocName: "my-docs",
		Target:  sideko.TargetPreview,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://preview.acme.dev", result.SiteURL)
	assert.Equal(t, "success 📖 deployment complete.", rec.Events()[len(rec.Events())-1])
}
