package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"booking-scraper/models"
	"booking-scraper/utils"
)

// CSVWriter exports every room record scraped during a run to a CSV file,
// alongside the database persistence
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// CSVRecord pairs a parsed room with its scrape context for the export
type CSVRecord struct {
	HotelName string
	Page      models.ScrapedHotelData
	Room      models.RoomAvailability
}

// WriteRecords writes all scraped room records to the CSV file
func (w *CSVWriter) WriteRecords(records []CSVRecord) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"hotel", "checkin", "checkout", "room_type", "base_price",
		"final_price", "availability", "offer", "non_refundable",
		"currency", "captured_at",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		availability := ""
		if rec.Room.Availability != nil {
			availability = strconv.Itoa(*rec.Room.Availability)
		}
		row := []string{
			rec.HotelName,
			rec.Page.CheckinDate,
			rec.Page.CheckoutDate,
			rec.Room.RoomTypeName,
			strconv.FormatFloat(rec.Room.BasePrice, 'f', 2, 64),
			strconv.FormatFloat(rec.Room.FinalPrice, 'f', 2, 64),
			availability,
			rec.Room.Offer,
			strconv.FormatBool(rec.Room.NonRefundable),
			rec.Page.Currency,
			rec.Page.CaptureDate.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row for '%s': %v", rec.Room.RoomTypeName, err)
		}
	}

	w.logger.Info("Room records written to: %s (%d rows)", w.filePath, len(records))
	return nil
}
