//go:build unit

package commands

import (
	"fmt"
	"testing"
	"time"

	"velobook/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitGuardPruning(t *testing.T) {
	base := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)

	t.Run("expired cooldown record is dropped on reacquire", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		guard := NewSubmitGuard(clk, 2*time.Second)

		require.NoError(t, guard.Acquire("client-a"))
		guard.Release("client-a")
		require.Len(t, guard.lastAttempt, 1)

		clk.Add(3 * time.Second)
		require.NoError(t, guard.Acquire("client-a"))
		guard.Release("client-a")
		assert.Len(t, guard.lastAttempt, 1, "only the fresh record remains")
	})

	t.Run("sweep evicts stale clients once the map grows", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		guard := NewSubmitGuard(clk, 2*time.Second)

		for i := 0; i < sweepThreshold; i++ {
			id := fmt.Sprintf("client-%d", i)
			require.NoError(t, guard.Acquire(id))
			guard.Release(id)
		}
		require.Len(t, guard.lastAttempt, sweepThreshold)

		clk.Add(3 * time.Second)
		require.NoError(t, guard.Acquire("newcomer"))
		guard.Release("newcomer")
		assert.Len(t, guard.lastAttempt, 1, "stale clients are swept out")
	})
}
