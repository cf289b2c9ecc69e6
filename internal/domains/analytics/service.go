package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/clientinfo"
	"github.com/xpanvictor/portfolio/pkg/geoip"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDays = 30
	MaxDays     = 365

	topPagesLimit     = 10
	topBrowsersLimit  = 5
	topReferrersLimit = 10
)

type AnalyticsService interface {
	Track(ctx context.Context, req TrackRequest, visitor Visitor) error
	Stats(ctx context.Context, days int) (*Stats, error)
}

type analyticsService struct {
	repository AnalyticsRepository
	locator    geoip.Locator
	logger     *Logger.Logger
	now        func() time.Time
}

func (s *analyticsService) Track(ctx context.Context, req TrackRequest, visitor Visitor) error {
	path := strings.TrimSpace(req.PagePath)
	if path == "" {
		path = "/"
	}
	agent := clientinfo.ParseUserAgent(visitor.UserAgent)
	// page views count headless beacons as desktop
	if agent.Device == clientinfo.Unknown {
		agent.Device = "desktop"
	}

	view := &PageView{
		ID:        uuid.New().String(),
		PagePath:  path,
		Referrer:  strings.TrimSpace(req.Referrer),
		UserAgent: visitor.UserAgent,
		Device:    agent.Device,
		Browser:   agent.Browser,
		OS:        agent.OS,
		Country:   s.locator.Locate(visitor.IPAddress).Country,
		SessionID: req.SessionID,
		CreatedAt: s.now(),
	}
	if err := s.repository.Create(ctx, view); err != nil {
		s.logger.Warnf("failed to track page view %s: %v", path, err)
		return fmt.Errorf("failed to track page view: %w", err)
	}
	return nil
}

// Stats runs the aggregate queries concurrently; any failure fails the lot.
func (s *analyticsService) Stats(ctx context.Context, days int) (*Stats, error) {
	if days <= 0 {
		days = DefaultDays
	}
	if days > MaxDays {
		days = MaxDays
	}
	since := s.now().AddDate(0, 0, -days)

	var (
		stats                               Stats
		pages, browsers, devices, referrers []Count
		byDay                               []DayCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalViews, err = s.repository.CountViews(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		stats.UniqueVisitors, err = s.repository.CountVisitors(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		pages, err = s.repository.Top(gctx, ByPage, since, topPagesLimit)
		return err
	})
	g.Go(func() (err error) {
		browsers, err = s.repository.Top(gctx, ByBrowser, since, topBrowsersLimit)
		return err
	})
	g.Go(func() (err error) {
		devices, err = s.repository.Top(gctx, ByDevice, since, 0)
		return err
	})
	g.Go(func() (err error) {
		referrers, err = s.repository.Top(gctx, ByReferrer, since, topReferrersLimit)
		return err
	})
	g.Go(func() (err error) {
		byDay, err = s.repository.ViewsByDay(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Errorf("error computing analytics: %v", err)
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}

	stats.TopPages = make([]PageCount, len(pages))
	for i, c := range pages {
		stats.TopPages[i] = PageCount{Path: c.Key, Views: c.Count}
	}
	stats.TopBrowsers = make([]BrowserCount, len(browsers))
	for i, c := range browsers {
		stats.TopBrowsers[i] = BrowserCount{Browser: c.Key, Count: c.Count}
	}
	stats.TopDevices = make([]DeviceCount, len(devices))
	for i, c := range devices {
		stats.TopDevices[i] = DeviceCount{Device: c.Key, Count: c.Count}
	}
	stats.TopReferrers = make([]ReferrerCount, len(referrers))
	for i, c := range referrers {
		stats.TopReferrers[i] = ReferrerCount{Referrer: c.Key, Count: c.Count}
	}
	stats.ViewsByDay = make([]DayViews, len(byDay))
	for i, d := range byDay {
		stats.ViewsByDay[i] = DayViews{Date: d.Date, Views: d.Count}
	}
	return &stats, nil
}

func NewAnalyticsService(repository AnalyticsRepository, locator geoip.Locator, logger *Logger.Logger) AnalyticsService {
	if locator == nil {
		locator = geoip.Noop{}
	}
	return &analyticsService{
		repository: repository,
		locator:    locator,
		logger:     logger,
		now:        time.Now,
	}
}
