package booking

import (
	"errors"
	"testing"
	"time"

	"booking-scraper/models"
	"booking-scraper/utils"

	"github.com/stretchr/testify/require"
)

func TestFailConvertsErrorToResult(t *testing.T) {
	s := &Scraper{logger: utils.NewLogger()}
	partial := models.ScrapedHotelData{
		HotelURL:     "https://www.booking.com/hotel/ar/bristol.es.html",
		CheckinDate:  "2024-03-01",
		CheckoutDate: "2024-03-02",
		CaptureDate:  time.Now(),
		Currency:     "EUR",
	}

	result := s.fail(partial, errors.New("navigation failed: context deadline exceeded"))

	require.False(t, result.Success)
	require.Equal(t, "navigation failed: context deadline exceeded", result.ErrorMessage)
	// Request context set before the failure is preserved
	require.Equal(t, partial.HotelURL, result.HotelURL)
	require.Equal(t, partial.CheckinDate, result.CheckinDate)
	require.Equal(t, partial.CheckoutDate, result.CheckoutDate)
	require.Equal(t, partial.Currency, result.Currency)
	require.Empty(t, result.RoomAvailabilities)
}
