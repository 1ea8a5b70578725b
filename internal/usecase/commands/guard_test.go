//go:build unit

package commands_test

import (
	"testing"
	"time"

	"velobook/internal/pkg/clock"
	"velobook/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitGuard(t *testing.T) {
	base := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)

	t.Run("second acquire while in flight is rejected", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		guard := commands.NewSubmitGuard(clk, 2*time.Second)

		require.NoError(t, guard.Acquire("client-a"))
		assert.ErrorIs(t, guard.Acquire("client-a"), commands.ErrSubmissionInFlight)
	})

	t.Run("clients do not block each other", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		guard := commands.NewSubmitGuard(clk, 2*time.Second)

		require.NoError(t, guard.Acquire("client-a"))
		assert.NoError(t, guard.Acquire("client-b"))
	})

	t.Run("cooldown starts at release", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		guard := commands.NewSubmitGuard(clk, 2*time.Second)

		require.NoError(t, guard.Acquire("client-a"))
		guard.Release("client-a")

		assert.ErrorIs(t, guard.Acquire("client-a"), commands.ErrCooldownActive)

		clk.Add(time.Second)
		assert.ErrorIs(t, guard.Acquire("client-a"), commands.ErrCooldownActive)

		clk.Add(time.Second)
		assert.NoError(t, guard.Acquire("client-a"))
	})

	t.Run("failed attempts cool down too", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		guard := commands.NewSubmitGuard(clk, 2*time.Second)

		require.NoError(t, guard.Acquire("client-a"))
		guard.Release("client-a")
		// outcome of the attempt is irrelevant to the guard
		assert.ErrorIs(t, guard.Acquire("client-a"), commands.ErrCooldownActive)
	})

	t.Run("zero cooldown allows immediate retry", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		guard := commands.NewSubmitGuard(clk, 0)

		require.NoError(t, guard.Acquire("client-a"))
		guard.Release("client-a")
		assert.NoError(t, guard.Acquire("client-a"))
	})
}
