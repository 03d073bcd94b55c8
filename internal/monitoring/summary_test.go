package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateCode(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()
	assert.Equal(t, "0", DateCode(epoch))
	assert.Equal(t, "1", DateCode(epoch.Add(24*time.Hour)))
	assert.Equal(t, "19800", DateCode(time.Unix(19800*86400+3600, 0)))
}

func TestNewSummary_InvalidSpec(t *testing.T) {
	_, err := NewSummary(nil, "not a cron spec")
	assert.Error(t, err)
}

func TestNewSummary_ValidSpec(t *testing.T) {
	job, err := NewSummary(nil, "0 21 * * *")
	require.NoError(t, err)
	require.NotNil(t, job)
}
