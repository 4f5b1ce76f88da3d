package attic_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mgrazal/attic"
)

func TestComputeValidator_Deterministic(t *testing.T) {
	modTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := attic.ComputeValidator(1024, modTime)
	second := attic.ComputeValidator(1024, modTime)

	assert.Equal(t, first.ETag, second.ETag)
	assert.Equal(t, modTime, first.LastModified)
}

func TestComputeValidator_QuotedToken(t *testing.T) {
	v := attic.ComputeValidator(42, time.Now())

	assert.True(t, strings.HasPrefix(v.ETag, `"`))
	assert.True(t, strings.HasSuffix(v.ETag, `"`))
	assert.Greater(t, len(v.ETag), 2)
}

func TestComputeValidator_ChangesWithInput(t *testing.T) {
	modTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	base := attic.ComputeValidator(1024, modTime)

	sizeChanged := attic.ComputeValidator(1025, modTime)
	assert.NotEqual(t, base.ETag, sizeChanged.ETag)

	timeChanged := attic.ComputeValidator(1024, modTime.Add(time.Second))
	assert.NotEqual(t, base.ETag, timeChanged.ETag)

	nanoChanged := attic.ComputeValidator(1024, modTime.Add(time.Nanosecond))
	assert.NotEqual(t, base.ETag, nanoChanged.ETag)
}
