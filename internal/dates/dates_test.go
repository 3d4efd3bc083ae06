package dates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeISO(t *testing.T) {
	t.Parallel()

	got, err := Normalize("2026-02-03")
	require.NoError(t, err)
	require.Equal(t, "2026-02-03", got)

	got, err = Normalize("  2026-02-03 ")
	require.NoError(t, err)
	require.Equal(t, "2026-02-03", got)

	_, err = Normalize("2026-13-45")
	require.Error(t, err, "ISO-shaped but not a calendar date")
}

func TestNormalizeDayFirst(t *testing.T) {
	t.Parallel()

	got, err := Normalize("3/02/2026")
	require.NoError(t, err)
	require.Equal(t, "2026-02-03", got)

	got, err = Normalize("31/12/2025")
	require.NoError(t, err)
	require.Equal(t, "2025-12-31", got)

	// day-first means 1/13 has no valid month
	_, err = Normalize("1/13/2026")
	require.Error(t, err)

	// rollover dates are rejected, not silently shifted
	_, err = Normalize("31/02/2026")
	require.Error(t, err)
}

func TestNormalizeGeneric(t *testing.T) {
	t.Parallel()

	got, err := Normalize("2026/02/03")
	require.NoError(t, err)
	require.Equal(t, "2026-02-03", got)

	got, err = Normalize("3 Feb 2026")
	require.NoError(t, err)
	require.Equal(t, "2026-02-03", got)

	_, err = Normalize("")
	require.Error(t, err)
	_, err = Normalize("not a date")
	require.Error(t, err)
}
