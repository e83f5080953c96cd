package services

import (
	"fmt"
	"strings"

	"booking-scraper/models"
)

const maxErrorsShown = 10

// PrintHotelSummary prints the persistence outcome for one hotel
func PrintHotelSummary(hotelName string, stats models.RunStats) {
	thin := strings.Repeat("─", 55)
	fmt.Printf("\n SUMMARY: %s\n%s\n", hotelName, thin)
	fmt.Printf("  Sessions Created : %d\n", stats.SessionsCreated)
	fmt.Printf("  Sessions Updated : %d\n", stats.SessionsUpdated)
	fmt.Printf("  Rooms Created    : %d\n", stats.RoomAvailabilitiesCreated)
	fmt.Printf("  Errors           : %d\n", len(stats.Errors))
}

// PrintFinalReport formats and prints the aggregate run report to terminal
func PrintFinalReport(total models.RunStats) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Printf("\n╔%s╗\n", border)
	fmt.Printf("║%s║\n", center("FINAL RUN SUMMARY ", 55))
	fmt.Printf("╚%s╝\n", border)

	fmt.Printf("\n TOTALS\n%s\n", thin)
	fmt.Printf("  Hotels Processed        : %d\n", total.HotelsProcessed)
	fmt.Printf("  Total Sessions Created  : %d\n", total.SessionsCreated)
	fmt.Printf("  Total Sessions Updated  : %d\n", total.SessionsUpdated)
	fmt.Printf("  Total Rooms Created     : %d\n", total.RoomAvailabilitiesCreated)
	fmt.Printf("  Total Errors            : %d\n", len(total.Errors))

	if len(total.Errors) > 0 {
		fmt.Printf("\n ERRORS FOUND\n%s\n", thin)
		shown := total.Errors
		if len(shown) > maxErrorsShown {
			shown = shown[:maxErrorsShown]
		}
		for _, e := range shown {
			fmt.Printf("  - %s\n", truncate(e, 80))
		}
		if len(total.Errors) > maxErrorsShown {
			fmt.Printf("  ... and %d more errors\n", len(total.Errors)-maxErrorsShown)
		}
	}

	fmt.Printf("\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
