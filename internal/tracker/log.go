package tracker

import (
	"strconv"
	"strings"
	"time"

	"exercise-tracker/internal/dates"
	"exercise-tracker/internal/models"
)

// DefaultLimitCap bounds a log response when the caller gives no usable limit.
const DefaultLimitCap = 500

// LogFilter narrows a log query. Nil or zero fields are not applied.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// ParseLogFilter builds a filter from raw query values. Values that do not
// parse are dropped instead of failing the query.
func ParseLogFilter(from, to, limit string) LogFilter {
	var f LogFilter
	if d, err := dates.Parse(from); err == nil {
		f.From = &d
	}
	if d, err := dates.Parse(to); err == nil {
		f.To = &d
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n > 0 {
		f.Limit = n
	}
	return f
}

// BuildLog filters exercises by the inclusive date range, then keeps at most
// Limit entries from the front. Without a limit, limitCap applies when it is
// positive. Input order is preserved.
func BuildLog(user models.User, exercises []models.Exercise, f LogFilter, limitCap int) models.LogResult {
	limit := f.Limit
	if limit <= 0 {
		limit = limitCap
	}

	log := make([]models.LogEntry, 0, len(exercises))
	for _, e := range exercises {
		if !dates.Between(e.Date, f.From, f.To) {
			continue
		}
		if limit > 0 && len(log) == limit {
			break
		}
		log = append(log, models.LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        dates.Format(e.Date),
		})
	}

	return models.LogResult{
		Username: user.Username,
		ID:       user.ID,
		Count:    len(log),
		Log:      log,
	}
}
