package projections

import (
	"context"
	"sort"

	"rollcall/internal/domain/attendance"
)

// Limits for the roll-call summary list.
const (
	RecentRollCallsDefaultLimit = 20
	RecentRollCallsMaxLimit     = 60

	// rollCallScanWindow caps how many recently created records are
	// examined when discovering distinct dates. A date falls out of the
	// summary once more than this many records have been written after
	// its last record, even though the records themselves remain.
	rollCallScanWindow = 2000
)

// GetRecentRollCallsQuery carries query parameters.
type GetRecentRollCallsQuery struct {
	Limit int // 0 means default
}

// RollCallSummary aggregates one date's attendance.
type RollCallSummary struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// GetRecentRollCallsResult carries the query result.
type GetRecentRollCallsResult struct {
	RollCalls []RollCallSummary `json:"rollCalls"`
}

// GetRecentRollCallsDeps holds dependencies for GetRecentRollCalls.
type GetRecentRollCallsDeps struct {
	AttendanceStore AttendanceStore
}

// QueryGetRecentRollCalls lists the most recent distinct roll-call dates
// with exact per-date counts. Dates come from a bounded scan of the newest
// records; counts are computed exactly per discovered date.
// POST: Dates are strictly descending and present+absent == total per row
func QueryGetRecentRollCalls(ctx context.Context, query GetRecentRollCallsQuery, deps GetRecentRollCallsDeps) (GetRecentRollCallsResult, error) {
	limit := query.Limit
	if limit == 0 {
		limit = RecentRollCallsDefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > RecentRollCallsMaxLimit {
		limit = RecentRollCallsMaxLimit
	}

	records, err := deps.AttendanceStore.ListRecent(ctx, rollCallScanWindow)
	if err != nil {
		return GetRecentRollCallsResult{}, err
	}

	seen := make(map[string]bool)
	dates := make([]string, 0, limit)
	for _, r := range records {
		if !seen[r.Date] {
			seen[r.Date] = true
			dates = append(dates, r.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return attendance.MoreRecent(dates[i], dates[j]) })
	if len(dates) > limit {
		dates = dates[:limit]
	}

	summaries := make([]RollCallSummary, 0, len(dates))
	for _, date := range dates {
		total, present, err := deps.AttendanceStore.CountByDate(ctx, date)
		if err != nil {
			return GetRecentRollCallsResult{}, err
		}
		summaries = append(summaries, RollCallSummary{
			Date:    date,
			Total:   total,
			Present: present,
			Absent:  total - present,
		})
	}
	return GetRecentRollCallsResult{RollCalls: summaries}, nil
}
