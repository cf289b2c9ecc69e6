package analytics

import (
	"context"
	"time"
)

// PageView is one tracked page load.
type PageView struct {
	ID        string
	PagePath  string
	Referrer  string
	UserAgent string
	Device    string
	Browser   string
	OS        string
	Country   string
	SessionID string
	CreatedAt time.Time
}

// TrackRequest is the body the site beacon posts.
// @Description Page view beacon
type TrackRequest struct {
	PagePath  string `json:"pagePath" example:"/blog/why-cdc"`
	Referrer  string `json:"referrer,omitempty" example:"https://news.ycombinator.com/"`
	SessionID string `json:"sessionId,omitempty" example:"visit_1718000000"`
}

// Visitor is what the transport layer knows about the caller.
type Visitor struct {
	IPAddress string
	UserAgent string
}

// Dimension is a groupable page view column.
type Dimension string

const (
	ByPage     Dimension = "page_path"
	ByBrowser  Dimension = "browser"
	ByDevice   Dimension = "device"
	ByReferrer Dimension = "referrer"
)

type Count struct {
	Key   string
	Count int64
}

type DayCount struct {
	Date  string
	Count int64
}

type PageCount struct {
	Path  string `json:"path" example:"/"`
	Views int64  `json:"views" example:"42"`
}

type DayViews struct {
	Date  string `json:"date" example:"2024-06-01"`
	Views int64  `json:"views" example:"12"`
}

type BrowserCount struct {
	Browser string `json:"browser" example:"Chrome"`
	Count   int64  `json:"count"`
}

type DeviceCount struct {
	Device string `json:"device" example:"desktop"`
	Count  int64  `json:"count"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer" example:"https://google.com/"`
	Count    int64  `json:"count"`
}

// Stats summarises page views since a cut-off.
// @Description Analytics summary
type Stats struct {
	TotalViews     int64           `json:"totalViews"`
	UniqueVisitors int64           `json:"uniqueVisitors"`
	TopPages       []PageCount     `json:"topPages"`
	ViewsByDay     []DayViews      `json:"viewsByDay"`
	TopBrowsers    []BrowserCount  `json:"topBrowsers"`
	TopDevices     []DeviceCount   `json:"topDevices"`
	TopReferrers   []ReferrerCount `json:"topReferrers"`
}

type AnalyticsRepository interface {
	Create(ctx context.Context, view *PageView) error
	CountViews(ctx context.Context, since time.Time) (int64, error)
	// CountVisitors counts distinct non-empty session ids.
	CountVisitors(ctx context.Context, since time.Time) (int64, error)
	// Top groups by dim, skipping empty values, most frequent first.
	// limit <= 0 returns every group.
	Top(ctx context.Context, dim Dimension, since time.Time, limit int) ([]Count, error)
	// ViewsByDay is newest day first.
	ViewsByDay(ctx context.Context, since time.Time) ([]DayCount, error)
}
