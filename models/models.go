package models

import "time"

// Hotel is a crawl target loaded from the hotels table
type Hotel struct {
	ID       int64
	Name     string
	URL      string
	Slug     string
	Currency string
}

// RoomAvailability represents one parsed room row. It carries no identity
// until persisted; RoomTypeID is assigned by the repository.
type RoomAvailability struct {
	RoomTypeID    int64
	RoomTypeName  string
	BasePrice     float64
	FinalPrice    float64
	Availability  *int // nil when the row (and its predecessors) showed no count
	Offer         string
	NonRefundable bool
}

// ScrapedHotelData is the result of one (hotel, date) scrape attempt,
// immutable once returned by the page extractor. A false Success is a normal
// outcome for consumers, not a fatal error.
type ScrapedHotelData struct {
	HotelURL           string
	CheckinDate        string // YYYY-MM-DD
	CheckoutDate       string
	CaptureDate        time.Time
	Adults             int
	Children           int
	Currency           string
	RoomAvailabilities []RoomAvailability
	Success            bool
	ErrorMessage       string
}

// ScrapeSession is the persisted record of one scrape attempt, uniquely
// keyed by (hotel_id, checkin_date, checkout_date).
type ScrapeSession struct {
	ID             int64
	HotelID        int64
	ProxyID        *int64
	CheckinDate    string
	CheckoutDate   string
	Adults         int
	Children       int
	Currency       string
	CaptureDate    time.Time
	URLRequested   string
	ErrorMessage   string
	Success        bool
	RoomTypesFound int
}

// ScrapeRequest carries the inputs for one hotel page extraction
type ScrapeRequest struct {
	HotelURL     string
	CheckinDate  string // YYYY-MM-DD
	CheckoutDate string
	Adults       int
	Children     int
	Currency     string
}

// DateRange is one checkin/checkout pair to scrape
type DateRange struct {
	Checkin  string // YYYY-MM-DD
	Checkout string
}

// RunStats accumulates persistence outcomes per hotel and for the whole run
type RunStats struct {
	HotelsProcessed           int
	SessionsCreated           int
	SessionsUpdated           int
	RoomAvailabilitiesCreated int
	Errors                    []string
}

// Merge folds another stats block into this one
func (s *RunStats) Merge(other RunStats) {
	s.SessionsCreated += other.SessionsCreated
	s.SessionsUpdated += other.SessionsUpdated
	s.RoomAvailabilitiesCreated += other.RoomAvailabilitiesCreated
	s.Errors = append(s.Errors, other.Errors...)
}
