package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"booking-scraper/models"
	"booking-scraper/utils"
)

// SessionRepo persists scrape sessions and their room availability records
type SessionRepo struct {
	db    *sql.DB
	clock *utils.ReportingClock
}

// NewSessionRepo creates a SessionRepo
func NewSessionRepo(db *sql.DB, clock *utils.ReportingClock) *SessionRepo {
	return &SessionRepo{db: db, clock: clock}
}

// Upsert stores the session keyed by (hotel_id, checkin_date, checkout_date)
// in a single transaction: an existing row has its mutable fields overwritten
// and keeps its id, otherwise a new row is inserted. Returns the session id
// and whether a row was created.
func (r *SessionRepo) Upsert(s models.ScrapeSession, requestParams map[string]interface{}) (int64, bool, error) {
	paramsJSON, err := json.Marshal(requestParams)
	if err != nil {
		return 0, false, fmt.Errorf("failed to serialize request params: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRow(
		"SELECT id FROM scrape_sessions WHERE hotel_id=$1 AND checkin_date=$2 AND checkout_date=$3 LIMIT 1",
		s.HotelID, s.CheckinDate, s.CheckoutDate,
	).Scan(&id)

	created := false
	errorMessage := sql.NullString{String: s.ErrorMessage, Valid: s.ErrorMessage != ""}
	now := r.clock.Now()

	switch err {
	case nil:
		_, err = tx.Exec(
			`UPDATE scrape_sessions SET
				proxy_id=$1, capture_date=$2, adults=$3, children=$4, currency=$5,
				url_requested=$6, response_status=NULL, request_params=$7,
				error_message=$8, success=$9, notes=NULL, room_types_found=$10,
				updated_at=$11
			 WHERE id=$12`,
			s.ProxyID, s.CaptureDate, s.Adults, s.Children, s.Currency,
			s.URLRequested, string(paramsJSON), errorMessage, s.Success,
			s.RoomTypesFound, now, id,
		)
		if err != nil {
			return 0, false, fmt.Errorf("failed to update scrape session: %w", err)
		}
	case sql.ErrNoRows:
		err = tx.QueryRow(
			`INSERT INTO scrape_sessions
				(hotel_id, proxy_id, checkin_date, checkout_date, adults, children,
				 currency, capture_date, url_requested, response_status,
				 request_params, error_message, success, notes, room_types_found,
				 created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, $10, $11, $12, NULL, $13, $14, $14)
			 RETURNING id`,
			s.HotelID, s.ProxyID, s.CheckinDate, s.CheckoutDate, s.Adults,
			s.Children, s.Currency, s.CaptureDate, s.URLRequested,
			string(paramsJSON), errorMessage, s.Success, s.RoomTypesFound, now,
		).Scan(&id)
		if err != nil {
			return 0, false, fmt.Errorf("failed to create scrape session: %w", err)
		}
		created = true
	default:
		return 0, false, fmt.Errorf("failed to look up scrape session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit scrape session: %w", err)
	}
	return id, created, nil
}

// InsertRoomAvailability appends one room availability record for the
// session. Records are never updated; re-scrapes accumulate history.
func (r *SessionRepo) InsertRoomAvailability(sessionID, roomTypeID int64, room models.RoomAvailability) error {
	now := r.clock.Now()
	availability := sql.NullInt64{}
	if room.Availability != nil {
		availability = sql.NullInt64{Int64: int64(*room.Availability), Valid: true}
	}
	offer := sql.NullString{String: room.Offer, Valid: room.Offer != ""}

	_, err := r.db.Exec(
		`INSERT INTO room_availabilities
			(scrape_session_id, room_type_id, room_available_count, offer,
			 base_price, final_price, non_refundable, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		sessionID, roomTypeID, availability, offer,
		room.BasePrice, room.FinalPrice, room.NonRefundable, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create room availability: %w", err)
	}
	return nil
}
