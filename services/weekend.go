package services

import (
	"time"

	"booking-scraper/models"
)

const dateLayout = "2006-01-02"

// DetectWeekendExtractions walks the date range and emits one extra
// two-night extraction per weekend start: Friday check-in -> Sunday
// check-out, Saturday check-in -> Monday check-out.
func DetectWeekendExtractions(start, end time.Time) []models.DateRange {
	var extractions []models.DateRange

	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		switch current.Weekday() {
		case time.Friday, time.Saturday:
			extractions = append(extractions, models.DateRange{
				Checkin:  current.Format(dateLayout),
				Checkout: current.AddDate(0, 0, 2).Format(dateLayout),
			})
		}
	}

	return extractions
}
