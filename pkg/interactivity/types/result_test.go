package types_test

import (
	"testing"
	"time"

	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	t.Parallel()

	success := types.Success("value", time.Second)
	assert.True(t, success.IsSuccess())
	assert.Equal(t, "value", success.Value)
	assert.Equal(t, time.Second, success.Elapsed)

	timedOut := types.TimedOut[int](2 * time.Second)
	assert.True(t, timedOut.IsTimedOut())
	assert.Zero(t, timedOut.Value)

	cancelled := types.CancelledWith(false, 0)
	assert.True(t, cancelled.IsCancelled())
	assert.False(t, cancelled.IsSuccess())
	assert.False(t, types.Cancelled[bool](0).Value)
}

func TestStatusString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status types.Status
		want   string
	}{
		{types.StatusSuccess, "Success"},
		{types.StatusTimedOut, "TimedOut"},
		{types.StatusCancelled, "Cancelled"},
		{types.Status(42), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestDeletionOptions(t *testing.T) {
	t.Parallel()

	opts := types.DeletionValid | types.DeletionAfterCapturedContext
	assert.True(t, opts.Has(types.DeletionValid))
	assert.True(t, opts.Has(types.DeletionAfterCapturedContext))
	assert.False(t, opts.Has(types.DeletionInvalids))
	assert.False(t, types.DeletionNone.Has(types.DeletionValid))
}
