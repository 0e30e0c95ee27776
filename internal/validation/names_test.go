package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAPIName(t *testing.T) {
	assert.NoError(t, NewAPIName("pet-store"))
	assert.NoError(t, NewAPIName("api2"))
	assert.ErrorContains(t, NewAPIName("ab"), "at least 3 characters")
	assert.ErrorContains(t, NewAPIName("Pet-Store"), "invalid api name")
	assert.Error(t, NewAPIName("pet--store"))
	assert.Error(t, NewAPIName("pet-"))
}

func TestSemver(t *testing.T) {
	assert.NoError(t, Semver("0.1.0"))
	assert.NoError(t, Semver("2.0.0-rc.1"))
	assert.Error(t, Semver("v1.0.0"))
	assert.Error(t, Semver("1.0"))
	assert.Error(t, Semver("latest"))
}
