package main

import (
	"os"
	"time"

	"booking-scraper/config"
	"booking-scraper/models"
	"booking-scraper/scraper/booking"
	"booking-scraper/services"
	"booking-scraper/storage"
	"booking-scraper/utils"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func main() {
	var days int

	rootCmd := &cobra.Command{
		Use:   "booking-scraper",
		Short: "Scrapes hotel room prices from Booking.com into PostgreSQL",
		Run: func(cmd *cobra.Command, args []string) {
			run(days)
		},
	}
	rootCmd.Flags().IntVar(&days, "days", 15, "number of days ahead to scan")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(days int) {
	// ================== Bootstrap ====================
	logger := utils.NewLogger()
	cfg := config.Load()
	clock := utils.NewReportingClock(cfg.Timezone)

	logger.Info("Booking Room-Price Scraper")
	logger.Info("Configured to extract %d days | Delay: %d-%ds | Headless: %v",
		days, cfg.DelayMinSeconds, cfg.DelayMaxSeconds, cfg.HeadlessMode)

	// Clean up after crashed prior runs before starting
	logger.Info("Cleaning stray browser processes and stale profile directories...")
	booking.KillStrayBrowsers(logger)
	booking.CleanupStaleProfiles(cfg.TempDirBase, cfg.ProfileMaxAge, logger)

	// =================== PostgreSQL Setup ========================================
	db, err := storage.Open(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Cannot connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	if err := storage.EnsureSchema(db, logger); err != nil {
		logger.Fatal("Failed to create DB schema: %v", err)
	}

	hotelRepo := storage.NewHotelRepo(db)
	roomRepo := storage.NewRoomRepo(db, clock)
	sessionRepo := storage.NewSessionRepo(db, clock)

	hotels, err := hotelRepo.FetchAll(1000)
	if err != nil {
		logger.Fatal("Failed to fetch hotels: %v", err)
	}
	if len(hotels) == 0 {
		logger.Fatal("No hotels found in hotels table")
	}
	logger.Info("Total hotels to process: %d", len(hotels))

	// One proxy is drawn for the entire run
	proxy := ""
	if cfg.UseProxy {
		proxy, err = hotelRepo.RandomProxy()
		if err != nil {
			logger.Warn("Failed to get proxy: %v, continuing without proxy", err)
			proxy = ""
		}
		if proxy != "" {
			logger.Info("Proxy selected for entire run: %s", booking.StripProxyCredentials(proxy))
		} else {
			logger.Warn("No proxies found in database, using direct connection")
		}
	}

	if days < 1 {
		logger.Fatal("--days must be at least 1, got %d", days)
	}
	dates := buildDates(days)
	logger.Info("Dates to process: %s to %s (%d extractions)",
		dates[0].Checkin, dates[len(dates)-1].Checkin, len(dates))

	updater := services.NewUpdateService(roomRepo, sessionRepo, logger,
		func(proxy string) (services.HotelScraper, error) {
			return booking.NewScraper(cfg, logger, clock, proxy)
		}, proxy)

	throttle := utils.NewThrottle(cfg.DelayMinSeconds, cfg.DelayMaxSeconds)
	tracker := utils.NewSessionTracker()

	// =============== Scraping ===================================
	var total models.RunStats
	var csvRecords []storage.CSVRecord

	for hotelIdx, hotel := range hotels {
		if hotel.URL == "" {
			logger.Warn("Hotel %d has no URL, skipping...", hotel.ID)
			continue
		}
		currency := hotel.Currency
		if currency == "" {
			currency = cfg.BookingCurrency
		}

		logger.Info("[%d/%d] Processing hotel: %s (ID: %d)", hotelIdx+1, len(hotels), hotel.Name, hotel.ID)
		var hotelStats models.RunStats

		for dateIdx, date := range dates {
			logger.Info("  [%d/%d] Date: %s -> %s", dateIdx+1, len(dates), date.Checkin, date.Checkout)

			if !tracker.Add(hotel.ID, date.Checkin, date.Checkout) {
				logger.Debug("  Session %d/%s/%s already processed this run, skipping", hotel.ID, date.Checkin, date.Checkout)
				continue
			}

			hotelURL := services.BuildHotelURL(cfg, hotel.Slug, services.URLParams{
				Checkin:  date.Checkin,
				Checkout: date.Checkout,
				Adults:   1,
				Children: 0,
				Currency: currency,
			})

			stats, scraped, err := updater.UpdateHotelPrices(services.UpdateRequest{
				HotelID:  hotel.ID,
				HotelURL: hotelURL,
				Checkin:  date.Checkin,
				Checkout: date.Checkout,
				Adults:   1,
				Children: 0,
				Currency: currency,
			})
			if err != nil {
				// Fatal to this iteration only; move on to the next date
				logger.Error("Error processing date %s for hotel %d: %v", date.Checkin, hotel.ID, err)
			}
			hotelStats.Merge(stats)

			for _, room := range scraped.RoomAvailabilities {
				csvRecords = append(csvRecords, storage.CSVRecord{
					HotelName: hotel.Name,
					Page:      scraped,
					Room:      room,
				})
			}

			// Randomized delay between requests, skipped after the very last one
			if !(hotelIdx == len(hotels)-1 && dateIdx == len(dates)-1) {
				delay := throttle.NextDelay()
				logger.Info("  Waiting %v before next request...", delay)
				time.Sleep(delay)
			}
		}

		services.PrintHotelSummary(hotel.Name, hotelStats)
		total.HotelsProcessed++
		total.Merge(hotelStats)
	}

	// ========= CSV: raw export of everything scraped this run ==========
	if len(csvRecords) > 0 {
		csvWriter := storage.NewCSVWriter(cfg.CSVFilePath, logger)
		if err := csvWriter.WriteRecords(csvRecords); err != nil {
			logger.Error("Failed to write CSV: %v", err)
			// Non-fatal: the database already has everything
		}
	}

	services.PrintFinalReport(total)

	// Final cleanup pass
	logger.Info("Final cleanup: removing stray browser processes...")
	booking.KillStrayBrowsers(logger)
	booking.CleanupStaleProfiles(cfg.TempDirBase, cfg.ProfileMaxAge, logger)
}

// buildDates produces one next-day extraction per day in the window plus the
// two-night weekend extractions over the same range
func buildDates(days int) []models.DateRange {
	today := time.Now()
	var dates []models.DateRange
	for i := 0; i < days; i++ {
		checkin := today.AddDate(0, 0, i)
		dates = append(dates, models.DateRange{
			Checkin:  checkin.Format(dateLayout),
			Checkout: checkin.AddDate(0, 0, 1).Format(dateLayout),
		})
	}
	dates = append(dates, services.DetectWeekendExtractions(today, today.AddDate(0, 0, days-1))...)
	return dates
}
