package services

import (
	"net/url"
	"regexp"
	"testing"

	"booking-scraper/config"

	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		BookingCurrency:     "EUR",
		BookingCountryCode:  "ar",
		BookingLanguageCode: "es",
		BookingAID:          "2369661",
		BookingLabel:        "test-label",
	}
}

func TestBuildHotelURL(t *testing.T) {
	raw := BuildHotelURL(testConfig(), "bristol", URLParams{
		Checkin:  "2024-03-01",
		Checkout: "2024-03-02",
		Adults:   2,
		Children: 1,
		Currency: "ARS",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "www.booking.com", u.Host)
	require.Equal(t, "/hotel/ar/bristol.es.html", u.Path)

	q := u.Query()
	require.Equal(t, "2024-03-01", q.Get("checkin"))
	require.Equal(t, "2024-03-02", q.Get("checkout"))
	require.Equal(t, "2", q.Get("group_adults"))
	require.Equal(t, "1", q.Get("group_children"))
	require.Equal(t, "2", q.Get("req_adults"))
	require.Equal(t, "A,A", q.Get("room1"))
	require.Equal(t, "hotel", q.Get("dest_type"))
	require.Equal(t, "popularity", q.Get("sr_order"))
	require.Equal(t, "ARS", q.Get("selected_currency"))
	require.Equal(t, "2369661", q.Get("aid"))
	require.NotEmpty(t, q.Get("srepoch"))

	// Per-request session token: 16 hex chars derived from the current time
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), q.Get("srpvid"))
}

func TestBuildHotelURLCurrencyFallback(t *testing.T) {
	raw := BuildHotelURL(testConfig(), "bristol", URLParams{
		Checkin:  "2024-03-01",
		Checkout: "2024-03-02",
		Adults:   1,
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "EUR", u.Query().Get("selected_currency"))
}

func TestSessionTokenFormat(t *testing.T) {
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), sessionToken())
}
