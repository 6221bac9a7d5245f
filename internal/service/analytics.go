package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Customer segment thresholds, in cents and order count.
const (
	vipSpendThreshold     = 50_000_00
	regularOrderThreshold = 3
)

// maxTopProducts caps the top-products ranking.
const maxTopProducts = 6

// AnalyticsService computes the on-demand analytics report for a date
// range. Reports are memoized in a bounded, time-evicting cache owned by
// the service; Invalidate drops all cached reports.
type AnalyticsService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	profiles repository.ProfileRepository
	logger   *slog.Logger
	cache    *reportCache
}

// NewAnalyticsService creates an analytics service with the given cache
// TTL and capacity.
func NewAnalyticsService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	profiles repository.ProfileRepository,
	logger *slog.Logger,
	cacheTTL time.Duration,
	cacheSize int,
) *AnalyticsService {
	return &AnalyticsService{
		products: products,
		orders:   orders,
		profiles: profiles,
		logger:   logger,
		cache:    newReportCache(cacheTTL, cacheSize),
	}
}

// Invalidate drops every cached report. Callers invoke it after writes
// that should be reflected immediately.
func (s *AnalyticsService) Invalidate() {
	s.cache.invalidate()
}

// Report computes the aggregate for [r.Start, r.End], end inclusive through
// the last millisecond of its calendar day. Results are memoized per
// (start, end, compare) until the cache TTL expires.
func (s *AnalyticsService) Report(ctx context.Context, r domain.ReportRange) (*domain.AnalyticsReport, error) {
	start := dayStart(r.Start)
	end := dayEnd(r.End)
	if end.Before(start) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("range end %s is before start %s", r.End.Format("2006-01-02"), r.Start.Format("2006-01-02")))
	}

	key := cacheKey{
		start:   start.Format("2006-01-02"),
		end:     r.End.Format("2006-01-02"),
		compare: r.Compare,
	}
	if report, ok := s.cache.get(key); ok {
		return report, nil
	}

	report, err := s.compute(ctx, start, end)
	if err != nil {
		if !isMissingRelation(err) {
			return nil, err
		}
		// Order tables absent: degrade to a catalog-only estimate rather
		// than failing the whole report.
		s.logger.WarnContext(ctx, "order tables missing, returning catalog estimate",
			slog.String("error", err.Error()),
		)
		report, err = s.estimateFromCatalog(ctx, start, end)
		if err != nil {
			return nil, err
		}
	}

	if r.Compare && !report.Estimated {
		span := end.Sub(start)
		prevEnd := start.Add(-time.Millisecond)
		prevStart := prevEnd.Add(-span)
		prev, err := s.compute(ctx, prevStart, prevEnd)
		if err != nil {
			s.logger.WarnContext(ctx, "comparison period computation failed",
				slog.String("error", err.Error()),
			)
		} else {
			report.Previous = &prev.KPIs
		}
	}

	s.cache.put(key, report)
	return report, nil
}

// compute runs the four reads in parallel and reduces them.
func (s *AnalyticsService) compute(ctx context.Context, start, end time.Time) (*domain.AnalyticsReport, error) {
	var (
		profiles []domain.Profile
		orders   []domain.Order
		sales    []repository.ItemSale
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = s.profiles.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListBetween(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.orders.ListItemsBetween(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics reads: %w", err)
	}

	return reduce(start, end, profiles, orders, sales), nil
}

// reduce folds the raw rows into the report.
func reduce(start, end time.Time, profiles []domain.Profile, orders []domain.Order, sales []repository.ItemSale) *domain.AnalyticsReport {
	// Seed one zeroed bucket per calendar day so quiet days still appear.
	type bucketAccum struct {
		revenue  int64
		orderIDs map[string]struct{}
		userIDs  map[string]struct{}
	}
	buckets := map[string]*bucketAccum{}
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		buckets[day] = &bucketAccum{
			orderIDs: map[string]struct{}{},
			userIDs:  map[string]struct{}{},
		}
		days = append(days, day)
	}

	// Order-level accumulation. Order and user sets keep a day from double
	// counting the same order or customer.
	var revenue int64
	purchasers := map[string]struct{}{}
	for _, o := range orders {
		revenue += o.Total
		purchasers[o.UserID] = struct{}{}

		day := o.CreatedAt.Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			continue
		}
		b.revenue += o.Total
		b.orderIDs[o.ID] = struct{}{}
		b.userIDs[o.UserID] = struct{}{}
	}

	// Line-item accumulation. Each sale independently adds its amount to
	// the parent order's day, on top of the order total already counted
	// above. The resulting overstatement matches the historical metric
	// definition and is kept until that definition changes.
	productRevenue := map[string]*domain.ProductRevenue{}
	categoryRevenue := map[string]int64{}
	for _, sale := range sales {
		amount := sale.Price * int64(sale.Quantity)

		day := sale.OrderCreatedAt.Format("2006-01-02")
		if b, ok := buckets[day]; ok {
			b.revenue += amount
		}

		pr, ok := productRevenue[sale.ProductID]
		if !ok {
			pr = &domain.ProductRevenue{
				ProductID: sale.ProductID,
				Name:      sale.ProductName,
				Category:  sale.Category,
				ImageURL:  sale.ImageURL,
			}
			productRevenue[sale.ProductID] = pr
		}
		pr.Revenue += amount
		pr.Units += sale.Quantity

		category := sale.Category
		if category == "" {
			category = domain.UncategorizedLabel
		}
		categoryRevenue[category] += amount
	}

	series := make([]domain.DayBucket, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		series = append(series, domain.DayBucket{
			Date:      day,
			Revenue:   b.revenue,
			Orders:    len(b.orderIDs),
			Customers: len(b.userIDs),
		})
	}

	top := make([]domain.ProductRevenue, 0, len(productRevenue))
	for _, pr := range productRevenue {
		top = append(top, *pr)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].ProductID < top[j].ProductID
	})
	if len(top) > maxTopProducts {
		top = top[:maxTopProducts]
	}

	categories := make([]domain.CategoryRevenue, 0, len(categoryRevenue))
	for category, rev := range categoryRevenue {
		categories = append(categories, domain.CategoryRevenue{Category: category, Revenue: rev})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Revenue != categories[j].Revenue {
			return categories[i].Revenue > categories[j].Revenue
		}
		return categories[i].Category < categories[j].Category
	})

	segments := segmentCustomers(profiles, orders)

	kpis := domain.KPISet{
		Revenue: revenue,
		Orders:  len(orders),
		// Customers counts every registered profile, not just purchasers.
		Customers: len(profiles),
		// Refunds are estimated as a fixed 2% of revenue.
		Refunds: revenue * 2 / 100,
	}
	if len(orders) > 0 {
		kpis.AvgOrderValue = revenue / int64(len(orders))
	}
	if len(profiles) > 0 {
		kpis.ConversionRate = float64(len(purchasers)) / float64(len(profiles)) * 100
	}

	return &domain.AnalyticsReport{
		KPIs:        kpis,
		Series:      series,
		TopProducts: top,
		Categories:  categories,
		Segments:    segments,
	}
}

// segmentCustomers assigns each registered profile to a spending segment
// based on the in-range orders: VIP above the spend threshold, Regular
// above the order-count threshold, New otherwise.
func segmentCustomers(profiles []domain.Profile, orders []domain.Order) []domain.SegmentCount {
	spend := map[string]int64{}
	count := map[string]int{}
	for _, o := range orders {
		spend[o.UserID] += o.Total
		count[o.UserID]++
	}

	counts := map[string]int{
		domain.SegmentVIP:     0,
		domain.SegmentRegular: 0,
		domain.SegmentNew:     0,
	}
	for _, p := range profiles {
		switch {
		case spend[p.ID] > vipSpendThreshold:
			counts[domain.SegmentVIP]++
		case count[p.ID] > regularOrderThreshold:
			counts[domain.SegmentRegular]++
		default:
			counts[domain.SegmentNew]++
		}
	}

	return []domain.SegmentCount{
		{Segment: domain.SegmentVIP, Customers: counts[domain.SegmentVIP]},
		{Segment: domain.SegmentRegular, Customers: counts[domain.SegmentRegular]},
		{Segment: domain.SegmentNew, Customers: counts[domain.SegmentNew]},
	}
}

// estimateFromCatalog builds the degraded report used when the order
// tables are missing: the sum of list prices stands in for revenue and
// everything order-derived is zero.
func (s *AnalyticsService) estimateFromCatalog(ctx context.Context, start, end time.Time) (*domain.AnalyticsReport, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog estimate: %w", err)
	}

	var revenue int64
	for _, p := range products {
		revenue += p.Price
	}

	series := []domain.DayBucket{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		series = append(series, domain.DayBucket{Date: d.Format("2006-01-02")})
	}

	return &domain.AnalyticsReport{
		KPIs:      domain.KPISet{Revenue: revenue},
		Series:    series,
		Estimated: true,
	}, nil
}

// isMissingRelation detects the "table does not exist" class of errors
// (SQLSTATE 42P01).
func isMissingRelation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "42P01") || strings.Contains(msg, "does not exist")
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayEnd extends t to the last millisecond of its calendar day so the end
// date is inclusive.
func dayEnd(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, time.UTC)
}
