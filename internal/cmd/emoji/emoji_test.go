package emoji

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefix(t *testing.T) {
	assert.Equal(t, "🪄  updating sdk", Prefix(Wand, "updating sdk"))
	assert.Equal(t, "📖 deployment created", Prefix(Book, "deployment created"))
	assert.Equal(t, "🚀 update applied!", Prefix(Rocket, "update applied!"))
}
