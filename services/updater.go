package services

import (
	"fmt"

	"booking-scraper/models"
	"booking-scraper/storage"
	"booking-scraper/utils"
)

// HotelScraper is the browser-backed extraction capability the updater
// drives. One instance corresponds to one isolated browser session.
type HotelScraper interface {
	Scrape(req models.ScrapeRequest) models.ScrapedHotelData
	Close()
}

// ScraperFactory builds a fresh scraper (and browser session) for one
// iteration; proxy may be empty.
type ScraperFactory func(proxy string) (HotelScraper, error)

// UpdateService runs one (hotel, date) price update end to end: scrape the
// page, upsert the scrape session, record each room availability.
type UpdateService struct {
	roomRepo    *storage.RoomRepo
	sessionRepo *storage.SessionRepo
	logger      *utils.Logger
	newScraper  ScraperFactory
	proxy       string
}

// NewUpdateService creates an UpdateService
func NewUpdateService(roomRepo *storage.RoomRepo, sessionRepo *storage.SessionRepo, logger *utils.Logger, newScraper ScraperFactory, proxy string) *UpdateService {
	return &UpdateService{
		roomRepo:    roomRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
		newScraper:  newScraper,
		proxy:       proxy,
	}
}

// UpdateRequest identifies one hotel+date scrape to run
type UpdateRequest struct {
	HotelID  int64
	HotelURL string
	Checkin  string
	Checkout string
	Adults   int
	Children int
	Currency string
	ProxyID  *int64
}

// UpdateHotelPrices scrapes one hotel+date and persists the outcome. The
// scrape session is recorded whether or not extraction succeeded. An error
// is returned only when the browser session could not be created or the
// session upsert failed; per-record persistence failures are collected in
// the stats and do not stop the batch.
func (s *UpdateService) UpdateHotelPrices(req UpdateRequest) (models.RunStats, models.ScrapedHotelData, error) {
	var stats models.RunStats

	s.logger.Info("Starting scraping for hotel %d - check-in: %s to check-out: %s",
		req.HotelID, req.Checkin, req.Checkout)

	scraper, err := s.newScraper(s.proxy)
	if err != nil {
		return stats, models.ScrapedHotelData{}, fmt.Errorf("error updating prices for hotel %d: %w", req.HotelID, err)
	}
	defer scraper.Close()

	scraped := scraper.Scrape(models.ScrapeRequest{
		HotelURL:     req.HotelURL,
		CheckinDate:  req.Checkin,
		CheckoutDate: req.Checkout,
		Adults:       req.Adults,
		Children:     req.Children,
		Currency:     req.Currency,
	})

	if !scraped.Success {
		msg := scraped.ErrorMessage
		if msg == "" {
			msg = "unknown scraping error"
		}
		stats.Errors = append(stats.Errors, msg)
		s.logger.Error("Scraping failed for hotel %d: %s", req.HotelID, msg)
	}

	session := models.ScrapeSession{
		HotelID:        req.HotelID,
		ProxyID:        req.ProxyID,
		CheckinDate:    req.Checkin,
		CheckoutDate:   req.Checkout,
		Adults:         req.Adults,
		Children:       req.Children,
		Currency:       scraped.Currency,
		CaptureDate:    scraped.CaptureDate,
		URLRequested:   req.HotelURL,
		ErrorMessage:   scraped.ErrorMessage,
		Success:        scraped.Success,
		RoomTypesFound: len(scraped.RoomAvailabilities),
	}
	requestParams := map[string]interface{}{
		"checkin_date":  req.Checkin,
		"checkout_date": req.Checkout,
		"adults":        req.Adults,
		"children":      req.Children,
		"currency":      scraped.Currency,
	}

	sessionID, created, err := s.sessionRepo.Upsert(session, requestParams)
	if err != nil {
		stats.Errors = append(stats.Errors, err.Error())
		return stats, scraped, fmt.Errorf("error updating prices for hotel %d: %w", req.HotelID, err)
	}
	if created {
		stats.SessionsCreated = 1
		s.logger.Info("Created new scrape session %d for hotel %d", sessionID, req.HotelID)
	} else {
		stats.SessionsUpdated = 1
		s.logger.Info("Updated existing scrape session %d for hotel %d", sessionID, req.HotelID)
	}

	for _, room := range scraped.RoomAvailabilities {
		roomTypeID, err := s.roomRepo.FindOrCreate(req.HotelID, room.RoomTypeName, "")
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("error processing room %s: %v", room.RoomTypeName, err))
			s.logger.Error("Error processing room for hotel %d: %v", req.HotelID, err)
			continue
		}
		if err := s.sessionRepo.InsertRoomAvailability(sessionID, roomTypeID, room); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("error processing room %s: %v", room.RoomTypeName, err))
			s.logger.Error("Error processing room for hotel %d: %v", req.HotelID, err)
			continue
		}
		stats.RoomAvailabilitiesCreated++
	}

	s.logger.Info("Completed scraping for hotel %d - created %d room availabilities",
		req.HotelID, stats.RoomAvailabilitiesCreated)
	return stats, scraped, nil
}
