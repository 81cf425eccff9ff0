package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EvertondSilva/nexus-app/internal/config"
	"github.com/EvertondSilva/nexus-app/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// MetricsService loads a project snapshot, runs the pure computation
// and caches the result. The cache is best effort: the dashboard is
// recomputed on any miss or Redis error, and short TTLs bound
// staleness.
type MetricsService struct {
	projectRepo  *repository.ProjectRepository
	statusRepo   *repository.StatusRepository
	rdb          *redis.Client
	cacheTTL     time.Duration
	scopeToOwner bool
}

func NewMetricsService(projectRepo *repository.ProjectRepository, statusRepo *repository.StatusRepository, rdb *redis.Client, appCfg config.AppConfig) *MetricsService {
	return &MetricsService{
		projectRepo:  projectRepo,
		statusRepo:   statusRepo,
		rdb:          rdb,
		cacheTTL:     appCfg.MetricsCacheTTL,
		scopeToOwner: appCfg.ScopeToOwner,
	}
}

func (s *MetricsService) scope(actorID string) string {
	if s.scopeToOwner {
		return actorID
	}
	return ""
}

func cacheKey(owner string, from, to *time.Time) string {
	f, t := "-", "-"
	if from != nil {
		f = from.Format("2006-01-02")
	}
	if to != nil {
		t = to.Format("2006-01-02")
	}
	if owner == "" {
		owner = "all"
	}
	return fmt.Sprintf("metrics:%s:%s:%s", owner, f, t)
}

// Dashboard computes the metrics snapshot, optionally restricted to
// projects created within [from, to] (inclusive).
func (s *MetricsService) Dashboard(ctx context.Context, actorID string, from, to *time.Time) (*MetricsSnapshot, error) {
	owner := s.scope(actorID)
	key := cacheKey(owner, from, to)

	if s.rdb != nil && s.cacheTTL > 0 {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var snapshot MetricsSnapshot
			if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
				return &snapshot, nil
			}
		}
	}

	snapshot, err := s.compute(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil && s.cacheTTL > 0 {
		if data, err := json.Marshal(snapshot); err == nil {
			s.rdb.Set(ctx, key, data, s.cacheTTL)
		}
	}

	return snapshot, nil
}

func (s *MetricsService) compute(ctx context.Context, owner string, from, to *time.Time) (*MetricsSnapshot, error) {
	projects, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		OwnerID:     owner,
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	statuses, err := s.statusRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}

	var rng *DateRange
	if from != nil || to != nil {
		rng = &DateRange{}
		if from != nil {
			rng.Start = *from
		}
		if to != nil {
			rng.End = *to
		}
	}

	snapshot := ComputeMetrics(projects, statuses, time.Now(), rng)
	return &snapshot, nil
}

// ExportXLSX renders the snapshot as an Excel workbook for download.
func (s *MetricsService) ExportXLSX(ctx context.Context, actorID string, from, to *time.Time) ([]byte, error) {
	snapshot, err := s.Dashboard(ctx, actorID, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Metrics"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Active projects", snapshot.Active},
		{"Overdue", snapshot.Overdue},
		{fmt.Sprintf("Due %s", snapshot.PeriodLabel), snapshot.DueThisPeriod},
		{"Completed", snapshot.Completed},
		{"Approved", snapshot.Approved},
		{"Rejected", snapshot.Rejected},
		{"Pending approval", snapshot.Pending},
		{"Approved %", snapshot.ApprovedPct},
		{"Rejected %", snapshot.RejectedPct},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	// Per-status breakdown below a blank row.
	base := len(rows) + 2
	header := []interface{}{"Status", "Active projects"}
	cell, _ := excelize.CoordinatesToCellName(1, base)
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return nil, fmt.Errorf("write row: %w", err)
	}
	for i, sc := range snapshot.PerStatus {
		row := []interface{}{sc.Name, sc.Count}
		cell, _ := excelize.CoordinatesToCellName(1, base+1+i)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
