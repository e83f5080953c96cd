package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"booking-scraper/config"
	"booking-scraper/models"
	"booking-scraper/utils"

	"github.com/chromedp/chromedp"
)

// Candidate selectors for the room-price table; Booking varies the markup by
// country/language, the first one that resolves wins.
var tableSelectors = []string{
	"table.hprt-table",
	"table#hprt-table",
	"table[class*='hprt-table']",
}

// Row discovery strategies, most specific first. The first strategy that
// yields any rows wins.
var rowSelectors = []string{
	"table.hprt-table tbody tr, table#hprt-table tbody tr",
	"table.hprt-table tr, table#hprt-table tr",
	"tr[data-block-id]",
}

// Scraper extracts room-price data for one hotel+date query using an
// isolated browser session
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	clock   *utils.ReportingClock
	session *Session
}

// NewScraper starts a browser session for scraping. The caller owns the
// returned scraper and must Close it, even after failed scrapes.
func NewScraper(cfg *config.Config, logger *utils.Logger, clock *utils.ReportingClock, proxy string) (*Scraper, error) {
	session, err := NewSession(cfg, logger, proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scraper: %w", err)
	}
	return &Scraper{cfg: cfg, logger: logger, clock: clock, session: session}, nil
}

// Close tears down the browser session. Idempotent, never fails.
func (s *Scraper) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

// Scrape navigates to the hotel page and extracts all room rows. Extraction
// problems are converted into a Success=false result with ErrorMessage set;
// callers must check Success. A false result is a normal outcome, not a
// fatal error.
func (s *Scraper) Scrape(req models.ScrapeRequest) models.ScrapedHotelData {
	result := models.ScrapedHotelData{
		HotelURL:     req.HotelURL,
		CheckinDate:  req.CheckinDate,
		CheckoutDate: req.CheckoutDate,
		CaptureDate:  s.clock.Now(),
		Adults:       req.Adults,
		Children:     req.Children,
		Currency:     req.Currency,
	}
	if result.Currency == "" {
		result.Currency = s.cfg.BookingCurrency
	}

	ctx := s.session.Context()
	s.logger.Info("Navigating to: %s", req.HotelURL)

	if err := chromedp.Run(ctx, chromedp.Navigate(req.HotelURL)); err != nil {
		return s.fail(result, fmt.Errorf("navigation failed: %w", err))
	}

	if err := s.runBounded(ctx, s.cfg.PageLoadTimeout, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return s.fail(result, fmt.Errorf("page body never appeared: %w", err))
	}

	// Give client-side rendering time to settle
	if err := chromedp.Run(ctx, chromedp.Sleep(s.cfg.SettleDelay)); err != nil {
		return s.fail(result, err)
	}

	var htmlLength int
	if err := chromedp.Run(ctx, chromedp.Evaluate(`document.documentElement.innerHTML.length`, &htmlLength)); err == nil {
		s.logger.Info("HTML received - length: %d characters", htmlLength)
	}

	tableFound := false
	for _, sel := range tableSelectors {
		if err := s.runBounded(ctx, s.cfg.PageLoadTimeout, chromedp.WaitReady(sel, chromedp.ByQuery)); err == nil {
			s.logger.Info("Room table found with selector: %s", sel)
			tableFound = true
			break
		}
	}
	if !tableFound {
		// Degrade gracefully: a missing table means zero rows, not a failure
		s.logger.Warn("Room-price table not found on page")
	}

	// Rows load dynamically after the table appears
	if err := chromedp.Run(ctx, chromedp.Sleep(s.cfg.TableSettleDelay)); err != nil {
		return s.fail(result, err)
	}

	rows, err := s.collectRows(ctx)
	if err != nil {
		return s.fail(result, fmt.Errorf("row enumeration failed: %w", err))
	}

	filtered := filterRows(rows)
	s.logger.Info("Valid rows found in table: %d", len(filtered))
	if len(filtered) == 0 {
		s.logPageSample(ctx)
	}

	state := newRowState()
	var rooms []models.RoomAvailability
	for index, row := range filtered {
		room, err := parseRow(row, &state, s.cfg.PriceIncrement)
		if err != nil {
			// A malformed row must never abort the page
			s.logger.Error("Error processing row %d: %v", index, err)
			continue
		}
		if room == nil {
			s.logger.Debug("Skipping row %d - no room content", index)
			continue
		}
		if room.NonRefundable {
			s.logger.Info("Non-refundable room detected | Hotel: %s | Date: %s | Room: %s",
				req.HotelURL, req.CheckinDate, room.RoomTypeName)
		}
		rooms = appendRoom(rooms, &state, *room)
	}

	s.logger.Info("Data extracted - total rooms: %d", len(rooms))
	result.RoomAvailabilities = rooms
	result.Success = true
	return result
}

// fail converts an extraction error into a Success=false result. Scrape
// errors are ordinary outcomes for the caller, never panics or aborts.
func (s *Scraper) fail(result models.ScrapedHotelData, err error) models.ScrapedHotelData {
	s.logger.Error("Scrape failed for %s: %v", result.HotelURL, err)
	result.Success = false
	result.ErrorMessage = err.Error()
	return result
}

// collectRows tries each row discovery strategy in order and returns the
// rows of the first strategy that yields any.
func (s *Scraper) collectRows(ctx context.Context) ([]candidateRow, error) {
	for _, sel := range rowSelectors {
		var rows []candidateRow
		js := fmt.Sprintf(`
			(function() {
				var out = [];
				document.querySelectorAll(%q).forEach(function(tr) {
					out.push({
						html: tr.innerHTML,
						className: tr.getAttribute('class') || '',
						blockId: tr.getAttribute('data-block-id') || ''
					});
				});
				return out;
			})()
		`, sel)
		if err := chromedp.Run(ctx, chromedp.Evaluate(js, &rows)); err != nil {
			return nil, err
		}
		s.logger.Debug("Row strategy %q found %d rows", sel, len(rows))
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, nil
}

// filterRows keeps only real room rows: those carrying a data-block-id or
// the room-block row class, never header rows. Avoids picking up unrelated
// table rows.
func filterRows(rows []candidateRow) []candidateRow {
	var filtered []candidateRow
	for _, row := range rows {
		class := strings.ToLower(row.Class)
		if strings.Contains(class, headerRowClass) {
			continue
		}
		if row.BlockID != "" || strings.Contains(class, roomBlockRowClass) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func (s *Scraper) runBounded(ctx context.Context, timeout time.Duration, action chromedp.Action) error {
	bounded, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return chromedp.Run(bounded, action)
}

// logPageSample captures the start of the page source when no rows were
// found, for selector drift diagnosis
func (s *Scraper) logPageSample(ctx context.Context) {
	var sample string
	err := chromedp.Run(ctx, chromedp.Evaluate(
		`document.documentElement.outerHTML.substring(0, 5000)`, &sample))
	if err != nil {
		return
	}
	s.logger.Debug("Page source sample: %s", sample)
}
