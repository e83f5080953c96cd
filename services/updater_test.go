package services

import (
	"errors"
	"os"
	"testing"
	"time"

	"booking-scraper/models"
	"booking-scraper/storage"
	"booking-scraper/utils"

	"github.com/stretchr/testify/require"
)

type stubScraper struct {
	result models.ScrapedHotelData
	closed bool
}

func (s *stubScraper) Scrape(req models.ScrapeRequest) models.ScrapedHotelData {
	s.result.HotelURL = req.HotelURL
	s.result.CheckinDate = req.CheckinDate
	s.result.CheckoutDate = req.CheckoutDate
	return s.result
}

func (s *stubScraper) Close() { s.closed = true }

func updaterTestEnv(t *testing.T) (*UpdateService, *stubScraper, int64) {
	t.Helper()
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := utils.NewLogger()
	clock := utils.NewReportingClock("UTC")

	db, err := storage.Open(connStr, logger)
	require.NoError(t, err)
	require.NoError(t, storage.EnsureSchema(db, logger))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM room_availabilities")
		_, _ = db.Exec("DELETE FROM scrape_sessions")
		_, _ = db.Exec("DELETE FROM room_types")
		_, _ = db.Exec("DELETE FROM hotels")
		_ = db.Close()
	})

	var hotelID int64
	err = db.QueryRow(
		"INSERT INTO hotels (name, url, currency) VALUES ('Updater Hotel', 'https://example.test', 'EUR') RETURNING id",
	).Scan(&hotelID)
	require.NoError(t, err)

	stub := &stubScraper{}
	updater := NewUpdateService(
		storage.NewRoomRepo(db, clock),
		storage.NewSessionRepo(db, clock),
		logger,
		func(proxy string) (HotelScraper, error) { return stub, nil },
		"",
	)
	return updater, stub, hotelID
}

func TestUpdateHotelPricesSuccess(t *testing.T) {
	updater, stub, hotelID := updaterTestEnv(t)
	availability := 2
	stub.result = models.ScrapedHotelData{
		CaptureDate: time.Now().UTC(),
		Currency:    "EUR",
		Success:     true,
		RoomAvailabilities: []models.RoomAvailability{
			{RoomTypeName: "Doble", BasePrice: 221, FinalPrice: 198, Availability: &availability},
			{RoomTypeName: "Suite", FinalPrice: 350},
		},
	}

	stats, scraped, err := updater.UpdateHotelPrices(UpdateRequest{
		HotelID:  hotelID,
		HotelURL: "https://example.test/page",
		Checkin:  "2024-03-01",
		Checkout: "2024-03-02",
		Adults:   1,
		Currency: "EUR",
	})
	require.NoError(t, err)
	require.True(t, scraped.Success)
	require.Equal(t, 1, stats.SessionsCreated)
	require.Equal(t, 0, stats.SessionsUpdated)
	require.Equal(t, 2, stats.RoomAvailabilitiesCreated)
	require.Empty(t, stats.Errors)
	require.True(t, stub.closed)

	// Same key again: the session is updated, not duplicated
	stats, _, err = updater.UpdateHotelPrices(UpdateRequest{
		HotelID:  hotelID,
		HotelURL: "https://example.test/page",
		Checkin:  "2024-03-01",
		Checkout: "2024-03-02",
		Adults:   1,
		Currency: "EUR",
	})
	require.NoError(t, err)
	require.Equal(t, 0, stats.SessionsCreated)
	require.Equal(t, 1, stats.SessionsUpdated)
}

func TestUpdateHotelPricesFailedScrapeIsRecorded(t *testing.T) {
	updater, stub, hotelID := updaterTestEnv(t)
	stub.result = models.ScrapedHotelData{
		CaptureDate:  time.Now().UTC(),
		Currency:     "EUR",
		Success:      false,
		ErrorMessage: "navigation failed: timeout",
	}

	stats, scraped, err := updater.UpdateHotelPrices(UpdateRequest{
		HotelID:  hotelID,
		HotelURL: "https://example.test/page",
		Checkin:  "2024-03-05",
		Checkout: "2024-03-06",
		Adults:   1,
		Currency: "EUR",
	})
	require.NoError(t, err)
	require.False(t, scraped.Success)
	// The failed attempt is still persisted as a session
	require.Equal(t, 1, stats.SessionsCreated)
	require.Equal(t, 0, stats.RoomAvailabilitiesCreated)
	require.NotEmpty(t, stats.Errors)
}

func TestUpdateHotelPricesBadRecordDoesNotAbortBatch(t *testing.T) {
	updater, stub, hotelID := updaterTestEnv(t)
	stub.result = models.ScrapedHotelData{
		CaptureDate: time.Now().UTC(),
		Currency:    "EUR",
		Success:     true,
		RoomAvailabilities: []models.RoomAvailability{
			{RoomTypeName: "", FinalPrice: 100}, // empty name cannot resolve a room type
			{RoomTypeName: "Doble", FinalPrice: 200},
		},
	}

	stats, _, err := updater.UpdateHotelPrices(UpdateRequest{
		HotelID:  hotelID,
		HotelURL: "https://example.test/page",
		Checkin:  "2024-03-10",
		Checkout: "2024-03-11",
		Adults:   1,
		Currency: "EUR",
	})
	require.NoError(t, err)
	require.Equal(t, 1, stats.RoomAvailabilitiesCreated)
	require.Len(t, stats.Errors, 1)
}

func TestUpdateHotelPricesScraperCreationFailure(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := utils.NewLogger()
	clock := utils.NewReportingClock("UTC")
	db, err := storage.Open(connStr, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	updater := NewUpdateService(
		storage.NewRoomRepo(db, clock),
		storage.NewSessionRepo(db, clock),
		logger,
		func(proxy string) (HotelScraper, error) { return nil, errors.New("browser failed to start") },
		"",
	)

	_, _, err = updater.UpdateHotelPrices(UpdateRequest{HotelID: 1, Checkin: "2024-03-01", Checkout: "2024-03-02"})
	require.Error(t, err)
}
