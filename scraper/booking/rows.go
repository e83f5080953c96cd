package booking

import (
	"strings"

	"booking-scraper/models"
	"booking-scraper/services"

	"github.com/PuerkitoBio/goquery"
)

// Selectors for the pieces of one room row. Booking varies the table markup
// by locale, hence the fallbacks.
const (
	selRoomName        = "span.hprt-roomtype-icon-link"
	selBasePrice       = "div.bui-f-color-destructive.js-strikethrough-price"
	selFinalPrice      = "span.prco-valign-middle-helper"
	selFinalPriceAlt   = "span.prc-no-css"
	selOffer           = "div.c-deals-container > div > div:nth-child(2) > span > span > span"
	selAvailability    = "li.bui-list__item.bui-text--color-destructive-dark div.bui-list__description"
	selAvailabilityAlt = "span.only_x_left.urgency_message_red"

	headerRowClass    = "hprt-table-header"
	roomBlockRowClass = "js-rt-block-row"

	// Phrase marking a non-refundable rate in the rendered row HTML
	nonRefundablePhrase = "no reembolsable"

	// Rows with less inner HTML than this cannot hold real room content
	minRowContentLength = 50
)

// candidateRow is one table row as pulled out of the page: its inner HTML
// plus the attributes the filter needs.
type candidateRow struct {
	HTML    string `json:"html"`
	Class   string `json:"className"`
	BlockID string `json:"blockId"`
}

// rowState is the carry-forward accumulator threaded through a page's row
// loop. Booking visually merges multi-row room blocks, so the name and the
// availability count only appear on the first sub-row; later sub-rows
// inherit them. All state resets per page.
type rowState struct {
	prevRoomName     string
	prevAvailability *int
	lastStudioIndex  int
}

func newRowState() rowState {
	return rowState{lastStudioIndex: -1}
}

// parseRow extracts zero or one room record from a row's HTML, updating the
// carry-forward state. Returns nil for non-data rows (headers, empty rows)
// and for rows with no name and no price.
func parseRow(row candidateRow, state *rowState, increment float64) (*models.RoomAvailability, error) {
	if strings.Contains(strings.ToLower(row.Class), headerRowClass) {
		return nil, nil
	}
	html := strings.TrimSpace(row.HTML)
	if len(html) < minRowContentLength {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(
		strings.NewReader("<table><tbody><tr>" + row.HTML + "</tr></tbody></table>"),
	)
	if err != nil {
		return nil, err
	}

	roomName := strings.TrimSpace(doc.Find(selRoomName).First().Text())
	if roomName == "" {
		roomName = state.prevRoomName
	} else {
		state.prevRoomName = roomName
	}

	basePrice := services.CleanPrice(doc.Find(selBasePrice).First().Text())
	finalPrice := services.CleanPrice(doc.Find(selFinalPrice).First().Text())
	if finalPrice == 0 {
		finalPrice = services.CleanPrice(doc.Find(selFinalPriceAlt).First().Text())
	}

	offer := strings.TrimSpace(doc.Find(selOffer).First().Text())

	availability := services.ExtractNumber(doc.Find(selAvailability).First().Text())
	if availability == nil {
		availability = services.ExtractNumber(doc.Find(selAvailabilityAlt).First().Text())
	}
	if availability == nil {
		availability = state.prevAvailability
	} else {
		state.prevAvailability = availability
	}

	if basePrice > 0 {
		basePrice = services.ApplyIncrement(basePrice, increment)
	}
	if finalPrice > 0 {
		finalPrice = services.ApplyIncrement(finalPrice, increment)
	}

	nonRefundable := strings.Contains(strings.ToLower(row.HTML), nonRefundablePhrase)

	if roomName == "" && finalPrice == 0 && basePrice == 0 {
		return nil, nil
	}

	return &models.RoomAvailability{
		RoomTypeName:  roomName,
		BasePrice:     basePrice,
		FinalPrice:    finalPrice,
		Availability:  availability,
		Offer:         offer,
		NonRefundable: nonRefundable,
	}, nil
}

// appendRoom adds a parsed record to the page's accumulated output, applying
// the studio rule: when a studio-category room arrives and an earlier studio
// record exists, the earlier one is removed first, so only the last studio
// offer on the page survives. Booking lists several studio sub-offers but
// only the final one counts.
func appendRoom(rooms []models.RoomAvailability, state *rowState, room models.RoomAvailability) []models.RoomAvailability {
	// Matches both "Studio" and the Spanish "Estudio"
	if strings.Contains(strings.ToLower(room.RoomTypeName), "studio") {
		if state.lastStudioIndex >= 0 && state.lastStudioIndex < len(rooms) {
			rooms = append(rooms[:state.lastStudioIndex], rooms[state.lastStudioIndex+1:]...)
		}
		state.lastStudioIndex = len(rooms)
	}
	return append(rooms, room)
}
