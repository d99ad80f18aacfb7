package schedule

import "github.com/hkwon327/timesheet-dashboard/internal/models"

// ClassifyRegion returns Kentucky when any entry's location equals marker
// exactly (case and whitespace included), otherwise Tennessee.
func ClassifyRegion(entries []models.ScheduleEntry, marker string) models.Region {
	if marker == "" {
		return models.RegionTennessee
	}
	for _, entry := range entries {
		if entry.Location == marker {
			return models.RegionKentucky
		}
	}
	return models.RegionTennessee
}
