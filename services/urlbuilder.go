package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"booking-scraper/config"
)

// URLParams is the query parameter set sent with every hotel page request.
// Booking serves different room tables depending on which of these are
// present, so the full set must be reproduced.
type URLParams struct {
	Checkin  string
	Checkout string
	Adults   int
	Children int
	Currency string
}

// BuildHotelURL assembles the hotel page URL:
// https://www.booking.com/hotel/<country>/<slug>.<language>.html?<query>
func BuildHotelURL(cfg *config.Config, hotelSlug string, p URLParams) string {
	currency := p.Currency
	if currency == "" {
		currency = cfg.BookingCurrency
	}

	q := url.Values{}
	q.Set("aid", cfg.BookingAID)
	q.Set("label", cfg.BookingLabel)
	q.Set("checkin", p.Checkin)
	q.Set("checkout", p.Checkout)
	q.Set("dest_type", "hotel")
	q.Set("dist", "0")
	q.Set("group_adults", strconv.Itoa(p.Adults))
	q.Set("group_children", strconv.Itoa(p.Children))
	q.Set("hapos", "1")
	q.Set("hpos", "1")
	q.Set("no_rooms", "1")
	q.Set("req_adults", strconv.Itoa(p.Adults))
	q.Set("req_children", strconv.Itoa(p.Children))
	q.Set("room1", "A,A")
	q.Set("sb_price_type", "total")
	q.Set("sr_order", "popularity")
	q.Set("srepoch", strconv.FormatInt(time.Now().Unix(), 10))
	q.Set("srpvid", sessionToken())
	q.Set("type", "total")
	q.Set("ucfs", "1")
	q.Set("selected_currency", currency)

	base := fmt.Sprintf("https://www.booking.com/hotel/%s/%s.%s.html",
		cfg.BookingCountryCode, hotelSlug, cfg.BookingLanguageCode)

	return base + "?" + q.Encode()
}

// sessionToken derives a fresh 16-char request token from the current time,
// matching the srpvid format Booking generates client-side.
func sessionToken() string {
	micro := fmt.Sprintf("%.6f", float64(time.Now().UnixMicro())/1e6)
	sum := md5.Sum([]byte(micro))
	return hex.EncodeToString(sum[:])[:16]
}
