package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"booking-scraper/utils"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// RoomRepo resolves room-type identity per hotel
type RoomRepo struct {
	db    *sql.DB
	clock *utils.ReportingClock
}

// NewRoomRepo creates a RoomRepo
func NewRoomRepo(db *sql.DB, clock *utils.ReportingClock) *RoomRepo {
	return &RoomRepo{db: db, clock: clock}
}

// FindOrCreate returns the id of the room type named name for the hotel,
// matching case-insensitively, creating it on first sighting. A concurrent
// insert racing on the same new name loses on the unique index and falls
// back to the re-select.
func (r *RoomRepo) FindOrCreate(hotelID int64, name, description string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("room name cannot be empty")
	}

	id, err := r.find(hotelID, name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up room type: %w", err)
	}

	now := r.clock.Now()
	err = r.db.QueryRow(
		`INSERT INTO room_types (hotel_id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4) RETURNING id`,
		hotelID, name, description, now,
	).Scan(&id)
	if err == nil {
		return id, nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		id, err = r.find(hotelID, name)
		if err != nil {
			return 0, fmt.Errorf("failed to re-select room type after conflict: %w", err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("failed to create room type: %w", err)
}

func (r *RoomRepo) find(hotelID int64, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(
		"SELECT id FROM room_types WHERE hotel_id=$1 AND LOWER(name)=LOWER($2) LIMIT 1",
		hotelID, name,
	).Scan(&id)
	return id, err
}
