package spinner

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/sideko-inc/sideko/internal/cmd/styles"
	"github.com/sideko-inc/sideko/pkg/logging"
)

func init() {
	styles.Disable()
}

func TestPlainModeLogsTransitions(t *testing.T) {
	logger := logging.NewTestLoggerAt(t, zerolog.InfoLevel)

	s := Start("📖 deployment created", logger.Logger, WithWriter(&bytes.Buffer{}))
	s.UpdateText("📖 deployment created")
	s.UpdateText("📖 deployment building")
	s.StopSuccess("deployment complete.")
	s.StopError("ignored after stop")
	s.UpdateText("ignored after stop")

	assert.Equal(t, []string{
		"📖 deployment created",
		"📖 deployment building",
		"✔ deployment complete.",
	}, logger.Lines())
	assert.Equal(t, "📖 deployment building", s.Text())
}

func TestPlainModeStopLevels(t *testing.T) {
	logger := logging.NewTestLogger(t)

	Start("working", logger.Logger).StopWarn("no updates to apply")
	Start("working", logger.Logger).StopError("deployment failed")
	s := Start("working", logger.Logger)
	s.Stop()
	s.StopSuccess("never shown")

	logger.AssertContains(t, "warn: ø no updates to apply")
	logger.AssertContains(t, "error: ✘ deployment failed")
	logger.AssertNotContains(t, "never shown")
}

func TestInteractiveModeOnlyLogsStop(t *testing.T) {
	logger := logging.NewTestLoggerAt(t, zerolog.InfoLevel)
	var out bytes.Buffer

	s := Start("🪄  updating sdk", logger.Logger, WithWriter(&out), WithInteractive(true))
	s.UpdateText("🪄  still updating sdk")
	s.StopSuccess("update applied!")

	assert.Equal(t, []string{"✔ update applied!"}, logger.Lines())
}
