package domain

import "time"

// Customer segment labels used by the analytics report.
const (
	SegmentVIP     = "VIP"
	SegmentRegular = "Regular"
	SegmentNew     = "New"
)

// ReportRange identifies one analytics query. Start and End are inclusive
// calendar-day bounds.
type ReportRange struct {
	Start   time.Time
	End     time.Time
	Compare bool
}

// KPISet holds the headline figures of an analytics report. Money values
// are cents; ConversionRate is a percentage.
type KPISet struct {
	Revenue        int64   `json:"revenue"`
	Orders         int     `json:"orders"`
	AvgOrderValue  int64   `json:"avg_order_value"`
	Customers      int     `json:"customers"`
	ConversionRate float64 `json:"conversion_rate"`
	Refunds        int64   `json:"refunds"`
}

// DayBucket aggregates one calendar day within the queried range. Days with
// no activity still appear with zeroed values.
type DayBucket struct {
	Date      string `json:"date"`
	Revenue   int64  `json:"revenue"`
	Orders    int    `json:"orders"`
	Customers int    `json:"customers"`
}

// ProductRevenue is one entry of the top-products ranking.
type ProductRevenue struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	ImageURL  string `json:"image_url,omitempty"`
	Revenue   int64  `json:"revenue"`
	Units     int    `json:"units"`
}

// CategoryRevenue is a per-category rollup of line-item revenue.
type CategoryRevenue struct {
	Category string `json:"category"`
	Revenue  int64  `json:"revenue"`
}

// SegmentCount reports how many customers fall into one spending segment.
type SegmentCount struct {
	Segment   string `json:"segment"`
	Customers int    `json:"customers"`
}

// AnalyticsReport is the full derived aggregate for one date range. It is
// recomputed on demand and never persisted. Previous holds the preceding
// period's headline figures when a comparison was requested. Estimated
// marks the degraded catalog-only report produced when the order tables
// are missing.
type AnalyticsReport struct {
	KPIs        KPISet            `json:"kpis"`
	Previous    *KPISet           `json:"previous,omitempty"`
	Series      []DayBucket       `json:"series"`
	TopProducts []ProductRevenue  `json:"top_products"`
	Categories  []CategoryRevenue `json:"categories"`
	Segments    []SegmentCount    `json:"segments"`
	Estimated   bool              `json:"estimated,omitempty"`
}
