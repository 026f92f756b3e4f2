package projections

import (
	"context"
	"time"
)

// RecentActivityDefaultLimit and bounds for the activity feed.
const (
	RecentActivityDefaultLimit = 10
	RecentActivityMaxLimit     = 50
)

// GetRecentActivityQuery carries query parameters for the activity feed.
type GetRecentActivityQuery struct {
	Limit int // 0 means default
}

// ActivityRow is one attendance write in the feed.
type ActivityRow struct {
	ID         string    `json:"id"`
	PersonID   string    `json:"personId"`
	PersonName string    `json:"personName"`
	Date       string    `json:"date"`
	Present    bool      `json:"present"`
	MarkedBy   string    `json:"markedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GetRecentActivityResult carries the query result.
type GetRecentActivityResult struct {
	Records []ActivityRow `json:"records"`
}

// GetRecentActivityDeps holds dependencies for GetRecentActivity.
type GetRecentActivityDeps struct {
	MemberStore     PersonStore
	KidStore        PersonStore
	AttendanceStore AttendanceStore
}

// QueryGetRecentActivity returns the most recent attendance writes, newest
// first by creation time, with person names resolved across both cohorts.
// POST: Returns at most limit rows; out-of-range limits are clamped
func QueryGetRecentActivity(ctx context.Context, query GetRecentActivityQuery, deps GetRecentActivityDeps) (GetRecentActivityResult, error) {
	limit := query.Limit
	if limit == 0 {
		limit = RecentActivityDefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > RecentActivityMaxLimit {
		limit = RecentActivityMaxLimit
	}

	records, err := deps.AttendanceStore.ListRecent(ctx, limit)
	if err != nil {
		return GetRecentActivityResult{}, err
	}

	rows := make([]ActivityRow, 0, len(records))
	for _, r := range records {
		name, err := personName(ctx, deps.MemberStore, deps.KidStore, r.PersonID)
		if err != nil {
			return GetRecentActivityResult{}, err
		}
		rows = append(rows, ActivityRow{
			ID:         r.ID,
			PersonID:   r.PersonID,
			PersonName: name,
			Date:       r.Date,
			Present:    r.Present,
			MarkedBy:   r.MarkedBy,
			CreatedAt:  r.CreatedAt,
		})
	}
	return GetRecentActivityResult{Records: rows}, nil
}
