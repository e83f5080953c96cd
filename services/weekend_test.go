package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDetectWeekendExtractionsFriday(t *testing.T) {
	friday := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	result := DetectWeekendExtractions(friday, friday.AddDate(0, 0, 7))

	require.NotEmpty(t, result)
	require.Equal(t, "2024-01-05", result[0].Checkin)
	require.Equal(t, "2024-01-07", result[0].Checkout) // Friday -> Sunday
}

func TestDetectWeekendExtractionsSaturday(t *testing.T) {
	saturday := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	result := DetectWeekendExtractions(saturday, saturday.AddDate(0, 0, 7))

	require.NotEmpty(t, result)
	require.Equal(t, "2024-01-06", result[0].Checkin)
	require.Equal(t, "2024-01-08", result[0].Checkout) // Saturday -> Monday
}

func TestDetectWeekendExtractionsNoWeekends(t *testing.T) {
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	require.Empty(t, DetectWeekendExtractions(monday, wednesday))
}

func TestDetectWeekendExtractionsSameDay(t *testing.T) {
	friday := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	result := DetectWeekendExtractions(friday, friday)

	require.Len(t, result, 1)
	require.Equal(t, "2024-01-05", result[0].Checkin)
}

func TestDetectWeekendExtractionsMultipleWeekends(t *testing.T) {
	friday := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	// Jan 5..19 holds Fridays 5, 12, 19 and Saturdays 6, 13
	result := DetectWeekendExtractions(friday, friday.AddDate(0, 0, 14))

	require.Len(t, result, 5)
}
