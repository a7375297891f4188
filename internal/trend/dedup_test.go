package trend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func TestDeduplicate(t *testing.T) {
	t.Parallel()

	t.Run("same_program_collapses", func(t *testing.T) {
		t.Parallel()

		got := trend.Deduplicate([]trend.Event{
			ev("Bach", "p1", 1900),
			ev("Bach", "p1", 1900),
			ev("Mozart", "p1", 1900),
		})

		assert.Equal(t, []trend.Event{ev("Bach", "p1", 1900), ev("Mozart", "p1", 1900)}, got)
	})

	t.Run("different_programs_kept", func(t *testing.T) {
		t.Parallel()

		got := trend.Deduplicate([]trend.Event{
			ev("Bach", "p1", 1900),
			ev("Bach", "p2", 1900),
		})

		assert.Len(t, got, 2)
	})

	t.Run("first_occurrence_wins", func(t *testing.T) {
		t.Parallel()

		first := ev("Bach", "p1", 1900)
		later := ev("Bach", "p1", 1901)

		got := trend.Deduplicate([]trend.Event{first, ev("Ravel", "p3", 1900), later})

		assert.Equal(t, []trend.Event{first, ev("Ravel", "p3", 1900)}, got)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, trend.Deduplicate(nil))
	})
}
