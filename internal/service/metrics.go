package service

import (
	"math"
	"time"

	"github.com/EvertondSilva/nexus-app/internal/model/entity"
)

// DateRange is an inclusive creation-date window. A zero Start or End
// means that bound was not supplied.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StatusCount is the number of active projects sitting in one column.
type StatusCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// MetricsSnapshot is the dashboard aggregate for one project snapshot.
type MetricsSnapshot struct {
	Active        int           `json:"active"`
	Overdue       int           `json:"overdue"`
	DueThisPeriod int           `json:"due_this_period"`
	PeriodLabel   string        `json:"period_label"`
	Completed     int           `json:"completed"`
	Approved      int           `json:"approved"`
	Rejected      int           `json:"rejected"`
	Pending       int           `json:"pending"`
	TotalReviewed int           `json:"total_reviewed"`
	ApprovedPct   int           `json:"approved_pct"`
	RejectedPct   int           `json:"rejected_pct"`
	PerStatus     []StatusCount `json:"per_status"`
}

// ComputeMetrics derives the dashboard numbers from a snapshot of
// projects and the active statuses (already in rank order). It is a
// pure function: same inputs, same snapshot, no writes.
//
// Completed/approved/rejected counts run over the whole snapshot;
// overdue, due-this-period, pending and the per-status breakdown only
// consider active projects (not completed, not rejected). When rng has
// an end date, "today" is clamped to it so a historical window does not
// report overdue counts relative to the real present.
func ComputeMetrics(projects []entity.Project, statuses []entity.ProjectStatus, today time.Time, rng *DateRange) MetricsSnapshot {
	today = dateOnly(today)
	if rng != nil && !rng.End.IsZero() {
		if end := dateOnly(rng.End); end.Before(today) {
			today = end
		}
	}

	var active []entity.Project
	var snapshot MetricsSnapshot
	for _, p := range projects {
		if p.Completed {
			snapshot.Completed++
		}
		switch p.Approval {
		case entity.ApprovalApproved:
			snapshot.Approved++
		case entity.ApprovalRejected:
			snapshot.Rejected++
		}
		if p.IsActive() {
			active = append(active, p)
		}
	}
	snapshot.Active = len(active)

	periodStart, periodEnd := periodBounds(today, rng)
	snapshot.PeriodLabel = periodStart.Format("02/01") + " to " + periodEnd.Format("02/01")

	for _, p := range active {
		due := dateOnly(p.DeliveryDue)
		if due.Before(today) {
			snapshot.Overdue++
		}
		if !due.Before(periodStart) && !due.After(periodEnd) {
			snapshot.DueThisPeriod++
		}
		if p.Approval == entity.ApprovalPending {
			snapshot.Pending++
		}
	}

	snapshot.PerStatus = make([]StatusCount, 0, len(statuses))
	for _, status := range statuses {
		count := 0
		for _, p := range active {
			if p.StatusID == status.ID {
				count++
			}
		}
		snapshot.PerStatus = append(snapshot.PerStatus, StatusCount{
			ID:    status.ID,
			Name:  status.Name,
			Color: status.Color,
			Count: count,
		})
	}

	snapshot.TotalReviewed = snapshot.Approved + snapshot.Rejected
	if snapshot.TotalReviewed > 0 {
		snapshot.ApprovedPct = roundPct(snapshot.Approved, snapshot.TotalReviewed)
		snapshot.RejectedPct = roundPct(snapshot.Rejected, snapshot.TotalReviewed)
	}

	return snapshot
}

// periodBounds returns the due-date window: the supplied range when
// both ends are given, otherwise the ISO week (Monday..Sunday)
// containing today.
func periodBounds(today time.Time, rng *DateRange) (time.Time, time.Time) {
	if rng != nil && !rng.Start.IsZero() && !rng.End.IsZero() {
		return dateOnly(rng.Start), dateOnly(rng.End)
	}
	offset := (int(today.Weekday()) + 6) % 7 // Monday = 0
	start := today.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// roundPct computes part/total as a whole percentage, half rounded up.
// The approved and rejected percentages round independently and may not
// sum to 100.
func roundPct(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

// dateOnly truncates to the calendar date in a single zone so that
// comparisons behave as date comparisons regardless of where the
// inputs came from (stored dates are UTC, "today" is server-local).
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
