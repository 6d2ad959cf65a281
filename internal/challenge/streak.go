package challenge

import (
	"sort"

	"github.com/twentyhard/twentyhard/internal/model"
)

type Streaks struct {
	Current int `json:"currentStreak"`
	Longest int `json:"longestStreak"`
}

// CalculateStreaks scans logs in date order. Completed extends the run,
// failed resets it, pending leaves it alone. The input is not modified.
func CalculateStreaks(logs []model.DayLog) Streaks {
	sorted := make([]model.DayLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	var s Streaks
	running := 0
	for _, l := range sorted {
		switch l.Status {
		case model.DayStatusCompleted:
			running++
			if running > s.Longest {
				s.Longest = running
			}
		case model.DayStatusFailed:
			running = 0
		}
	}
	s.Current = running
	return s
}

// SortLogs orders logs by date in place.
func SortLogs(logs []model.DayLog) {
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
}
