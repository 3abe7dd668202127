package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/shared/timezone"
)

func TestNowAndLocation(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
}

func TestFormatAndParse(t *testing.T) {
	instant := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.NotEmpty(t, timezone.Format(instant, time.RFC3339))

	parsed, err := timezone.Parse(time.DateOnly, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, timezone.GetLocation(), parsed.Location())
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2024, 3, 10, 23, 30, 0, 0, timezone.GetLocation())
	clock := timezone.Fixed(instant)

	assert.Equal(t, instant, clock.Now())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), timezone.Today(clock))
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := timezone.NewClock().Now()

	assert.False(t, now.Before(before.Add(-time.Second)))
}

func TestDate(t *testing.T) {
	// 23:30 UTC is already the next day in Jakarta (UTC+7).
	instant := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		loc  *time.Location
		want time.Time
	}{
		{name: "ahead of utc", loc: jakarta, want: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{name: "behind utc", loc: newYork, want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "application timezone", want: timezone.Today(timezone.Fixed(instant))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timezone.Date(instant, tt.loc))
		})
	}
}
