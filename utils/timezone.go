package utils

import "time"

// ReportingClock yields capture timestamps in the configured reporting
// timezone so persisted sessions line up with the analysis dashboards.
type ReportingClock struct {
	loc *time.Location
}

// NewReportingClock loads the named timezone, falling back to UTC when the
// zone database does not know it.
func NewReportingClock(name string) *ReportingClock {
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	return &ReportingClock{loc: loc}
}

// Now returns the current time in the reporting timezone
func (c *ReportingClock) Now() time.Time {
	return time.Now().In(c.loc)
}
