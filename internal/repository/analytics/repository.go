package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/xpanvictor/portfolio/internal/domains/analytics"
	"gorm.io/gorm"
)

type GormAnalyticsRepo struct {
	db *gorm.DB
}

var groupable = map[analytics.Dimension]bool{
	analytics.ByPage:     true,
	analytics.ByBrowser:  true,
	analytics.ByDevice:   true,
	analytics.ByReferrer: true,
}

func (g *GormAnalyticsRepo) since(ctx context.Context, since time.Time) *gorm.DB {
	return g.db.WithContext(ctx).Model(&PageViewEntity{}).Where("created_at >= ?", since)
}

// Create implements analytics.AnalyticsRepository
func (g *GormAnalyticsRepo) Create(ctx context.Context, view *analytics.PageView) error {
	if err := g.db.WithContext(ctx).Create(NewPageViewEntityFromDomain(view)).Error; err != nil {
		return fmt.Errorf("failed to create page view: %w", err)
	}
	return nil
}

// CountViews implements analytics.AnalyticsRepository
func (g *GormAnalyticsRepo) CountViews(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := g.since(ctx, since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count page views: %w", err)
	}
	return count, nil
}

// CountVisitors implements analytics.AnalyticsRepository
func (g *GormAnalyticsRepo) CountVisitors(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := g.since(ctx, since).
		Where("session_id <> ''").
		Distinct("session_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count visitors: %w", err)
	}
	return count, nil
}

type groupRow struct {
	Label string
	Count int64
}

// Top implements analytics.AnalyticsRepository
func (g *GormAnalyticsRepo) Top(ctx context.Context, dim analytics.Dimension, since time.Time, limit int) ([]analytics.Count, error) {
	if !groupable[dim] {
		return nil, fmt.Errorf("unsupported analytics dimension %q", dim)
	}
	column := string(dim)

	query := g.since(ctx, since).
		Select(column + " AS label, COUNT(*) AS count").
		Where(column + " <> ''").
		Group(column).
		Order("count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []groupRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group page views by %s: %w", column, err)
	}

	out := make([]analytics.Count, len(rows))
	for i, r := range rows {
		out[i] = analytics.Count{Key: r.Label, Count: r.Count}
	}
	return out, nil
}

type dayRow struct {
	Day   time.Time
	Count int64
}

// ViewsByDay implements analytics.AnalyticsRepository
func (g *GormAnalyticsRepo) ViewsByDay(ctx context.Context, since time.Time) ([]analytics.DayCount, error) {
	var rows []dayRow
	err := g.since(ctx, since).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Group("DATE(created_at)").
		Order("day DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group page views by day: %w", err)
	}

	out := make([]analytics.DayCount, len(rows))
	for i, r := range rows {
		out[i] = analytics.DayCount{Date: r.Day.Format("2006-01-02"), Count: r.Count}
	}
	return out, nil
}

func NewGormAnalyticsRepo(db *gorm.DB) analytics.AnalyticsRepository {
	return &GormAnalyticsRepo{db: db}
}
