// Package summary computes the dashboard counts over an asset collection
package summary

import (
	"time"

	"asset-inventory/internal/models"
)

// Stats are the derived counts for one collection snapshot
type Stats struct {
	Total     int           `json:"total"`
	ThisMonth int           `json:"thisMonth"`
	ThisWeek  int           `json:"thisWeek"`
	Latest    *models.Asset `json:"latest,omitempty"`
}

// Compute derives Stats from assets as seen at now, in now's location.
//
// ThisMonth counts assign dates in now's calendar month and year. ThisWeek
// counts assign dates at or after now minus seven days. Latest is the asset
// with the greatest assign date, the first one in collection order on a tie.
// Assets with unparseable dates only count toward Total; when no date parses
// at all the first asset is Latest.
func Compute(assets []models.Asset, now time.Time) Stats {
	stats := Stats{Total: len(assets)}
	if len(assets) == 0 {
		return stats
	}

	loc := now.Location()
	weekAgo := now.AddDate(0, 0, -7)
	year, month, _ := now.Date()

	latest := -1
	var latestOn time.Time
	for i, a := range assets {
		on, ok := a.AssignedOn(loc)
		if !ok {
			continue
		}
		if y, m, _ := on.Date(); y == year && m == month {
			stats.ThisMonth++
		}
		if !on.Before(weekAgo) {
			stats.ThisWeek++
		}
		if latest < 0 || on.After(latestOn) {
			latest, latestOn = i, on
		}
	}
	if latest < 0 {
		latest = 0
	}

	pick := assets[latest]
	stats.Latest = &pick
	return stats
}
