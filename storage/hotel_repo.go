package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"booking-scraper/models"
)

// HotelRepo reads crawl targets and proxies
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo creates a HotelRepo
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// FetchAll returns up to limit hotels
func (r *HotelRepo) FetchAll(limit int) ([]models.Hotel, error) {
	rows, err := r.db.Query(
		"SELECT id, COALESCE(name, ''), COALESCE(url, ''), COALESCE(currency, '') FROM hotels ORDER BY id LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hotels: %w", err)
	}
	defer rows.Close()

	var hotels []models.Hotel
	for rows.Next() {
		var h models.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.URL, &h.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan hotel: %w", err)
		}
		h.Slug = SlugFromURL(h.URL)
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

// RandomProxy returns a random proxy as "http://ip:port", or "" when the
// proxies table is empty
func (r *HotelRepo) RandomProxy() (string, error) {
	var ip string
	var port int
	err := r.db.QueryRow(
		"SELECT ip_address, port FROM proxies ORDER BY RANDOM() LIMIT 1",
	).Scan(&ip, &port)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch proxy: %w", err)
	}
	if ip == "" || port == 0 {
		return "", nil
	}
	return fmt.Sprintf("http://%s:%d", ip, port), nil
}

// SlugFromURL derives the hotel slug from its Booking URL: the last path
// segment up to the first dot ("…/hotel/ar/bristol.es.html" -> "bristol").
func SlugFromURL(url string) string {
	if url == "" {
		return ""
	}
	segments := strings.Split(url, "/")
	last := segments[len(segments)-1]
	if idx := strings.Index(last, "."); idx >= 0 {
		last = last[:idx]
	}
	return last
}
