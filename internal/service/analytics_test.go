package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
)

func newAnalyticsService(products *mockProductRepository, orders *mockOrderRepository, profiles *mockProfileRepository) *AnalyticsService {
	return NewAnalyticsService(products, orders, profiles, newTestLogger(), time.Minute, 16)
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func orderOn(userID string, total int64, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:        "order-" + userID + "-" + createdAt.Format("20060102"),
		UserID:    userID,
		Total:     total,
		Status:    domain.OrderStatusDelivered,
		CreatedAt: createdAt,
	}
}

func TestAnalyticsReport_DayBucketsFromOrderTotals(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	june10 := day("2025-06-10").Add(9 * time.Hour)
	profiles.On("List", mock.Anything).Return([]domain.Profile{
		{ID: "user-1"}, {ID: "user-2"},
	}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Order{
		{ID: "order-a", UserID: "user-1", Total: 100, CreatedAt: june10},
		{ID: "order-b", UserID: "user-2", Total: 50, CreatedAt: june10.Add(2 * time.Hour)},
	}, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{}, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-12"),
	})

	require.NoError(t, err)
	require.Len(t, report.Series, 3)

	assert.Equal(t, "2025-06-10", report.Series[0].Date)
	assert.Equal(t, int64(150), report.Series[0].Revenue)
	assert.Equal(t, 2, report.Series[0].Orders)
	assert.Equal(t, 2, report.Series[0].Customers)

	// Quiet days still appear, zeroed.
	assert.Equal(t, "2025-06-11", report.Series[1].Date)
	assert.Zero(t, report.Series[1].Revenue)
	assert.Zero(t, report.Series[1].Orders)
	assert.Equal(t, "2025-06-12", report.Series[2].Date)
}

func TestAnalyticsReport_LineItemsAddOnTopOfOrderTotals(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	june10 := day("2025-06-10").Add(9 * time.Hour)
	profiles.On("List", mock.Anything).Return([]domain.Profile{{ID: "user-1"}}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Order{
		{ID: "order-a", UserID: "user-1", Total: 100, CreatedAt: june10},
	}, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{
			{
				OrderID:        "order-a",
				OrderCreatedAt: june10,
				ProductID:      "prod-lamp",
				ProductName:    "Brass Desk Lamp",
				Category:       "Lighting",
				Quantity:       2,
				Price:          30,
			},
		}, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-10"),
	})

	require.NoError(t, err)

	// Headline revenue counts order totals only.
	assert.Equal(t, int64(100), report.KPIs.Revenue)

	// The day bucket carries the order total plus the line-item amounts.
	require.Len(t, report.Series, 1)
	assert.Equal(t, int64(160), report.Series[0].Revenue)

	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "prod-lamp", report.TopProducts[0].ProductID)
	assert.Equal(t, int64(60), report.TopProducts[0].Revenue)
	assert.Equal(t, 2, report.TopProducts[0].Units)

	require.Len(t, report.Categories, 1)
	assert.Equal(t, "Lighting", report.Categories[0].Category)
	assert.Equal(t, int64(60), report.Categories[0].Revenue)
}

func TestAnalyticsReport_KPIs(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	june10 := day("2025-06-10").Add(time.Hour)
	profiles.On("List", mock.Anything).Return([]domain.Profile{
		{ID: "user-1"}, {ID: "user-2"}, {ID: "user-3"}, {ID: "user-4"},
	}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Order{
		{ID: "order-a", UserID: "user-1", Total: 3000, CreatedAt: june10},
		{ID: "order-b", UserID: "user-1", Total: 1000, CreatedAt: june10},
	}, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{}, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-10"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4000), report.KPIs.Revenue)
	assert.Equal(t, 2, report.KPIs.Orders)
	assert.Equal(t, int64(2000), report.KPIs.AvgOrderValue)
	// Customers counts registered profiles, not purchasers.
	assert.Equal(t, 4, report.KPIs.Customers)
	// One purchasing user out of four profiles.
	assert.InDelta(t, 25.0, report.KPIs.ConversionRate, 0.001)
	// Refunds are a flat 2% of revenue.
	assert.Equal(t, int64(80), report.KPIs.Refunds)
	assert.False(t, report.Estimated)
}

func TestAnalyticsReport_ZeroSafeKPIs(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	profiles.On("List", mock.Anything).Return([]domain.Profile{}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Order{}, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{}, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-10"),
	})

	require.NoError(t, err)
	assert.Zero(t, report.KPIs.AvgOrderValue)
	assert.Zero(t, report.KPIs.ConversionRate)
	assert.Zero(t, report.KPIs.Refunds)
}

func TestAnalyticsReport_TopProductsCappedAtSix(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	june10 := day("2025-06-10").Add(time.Hour)
	sales := make([]repository.ItemSale, 0, 8)
	for i := 0; i < 8; i++ {
		sales = append(sales, repository.ItemSale{
			OrderID:        "order-a",
			OrderCreatedAt: june10,
			ProductID:      string(rune('a' + i)),
			Quantity:       1,
			Price:          int64(100 * (i + 1)),
		})
	}

	profiles.On("List", mock.Anything).Return([]domain.Profile{}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Order{}, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return(sales, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-10"),
	})

	require.NoError(t, err)
	require.Len(t, report.TopProducts, 6)
	// Ranked by revenue, highest first.
	assert.Equal(t, int64(800), report.TopProducts[0].Revenue)
	assert.Equal(t, int64(300), report.TopProducts[5].Revenue)
}

func TestAnalyticsReport_UncategorizedRollup(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	june10 := day("2025-06-10").Add(time.Hour)
	profiles.On("List", mock.Anything).Return([]domain.Profile{}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Order{}, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{
			{OrderCreatedAt: june10, ProductID: "prod-1", Category: "", Quantity: 1, Price: 500},
			{OrderCreatedAt: june10, ProductID: "prod-2", Category: "", Quantity: 1, Price: 300},
		}, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-10"),
	})

	require.NoError(t, err)
	require.Len(t, report.Categories, 1)
	assert.Equal(t, domain.UncategorizedLabel, report.Categories[0].Category)
	assert.Equal(t, int64(800), report.Categories[0].Revenue)
}

func TestAnalyticsReport_Segments(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	june10 := day("2025-06-10").Add(time.Hour)
	profiles.On("List", mock.Anything).Return([]domain.Profile{
		{ID: "big-spender"}, {ID: "frequent"}, {ID: "window-shopper"},
	}, nil)

	rows := []domain.Order{
		// One order over the VIP spend threshold.
		orderOn("big-spender", 60_000_00, june10),
		// Four small orders crosses the Regular order-count threshold.
		{ID: "f1", UserID: "frequent", Total: 100, CreatedAt: june10},
		{ID: "f2", UserID: "frequent", Total: 100, CreatedAt: june10},
		{ID: "f3", UserID: "frequent", Total: 100, CreatedAt: june10},
		{ID: "f4", UserID: "frequent", Total: 100, CreatedAt: june10},
	}
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return(rows, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{}, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-10"),
	})

	require.NoError(t, err)
	require.Len(t, report.Segments, 3)
	assert.Equal(t, domain.SegmentVIP, report.Segments[0].Segment)
	assert.Equal(t, 1, report.Segments[0].Customers)
	assert.Equal(t, domain.SegmentRegular, report.Segments[1].Segment)
	assert.Equal(t, 1, report.Segments[1].Customers)
	assert.Equal(t, domain.SegmentNew, report.Segments[2].Segment)
	assert.Equal(t, 1, report.Segments[2].Customers)
}

func TestAnalyticsReport_CacheHitAndInvalidate(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	profiles.On("List", mock.Anything).Return([]domain.Profile{}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Order{}, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{}, nil)

	r := domain.ReportRange{Start: day("2025-06-10"), End: day("2025-06-10")}
	ctx := context.Background()

	_, err := svc.Report(ctx, r)
	require.NoError(t, err)
	_, err = svc.Report(ctx, r)
	require.NoError(t, err)

	// Second call served from cache, no new reads.
	orders.AssertNumberOfCalls(t, "ListBetween", 1)

	svc.Invalidate()
	_, err = svc.Report(ctx, r)
	require.NoError(t, err)
	orders.AssertNumberOfCalls(t, "ListBetween", 2)
}

func TestAnalyticsReport_ComparePreviousPeriod(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	profiles.On("List", mock.Anything).Return([]domain.Profile{{ID: "user-1"}}, nil)
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{}, nil)

	// Current period: June 10-11. Previous period: June 8-9.
	currentStart := day("2025-06-10")
	orders.On("ListBetween", mock.Anything,
		mock.MatchedBy(func(start time.Time) bool { return !start.Before(currentStart) }),
		mock.Anything,
	).Return([]domain.Order{
		{ID: "order-now", UserID: "user-1", Total: 500, CreatedAt: currentStart.Add(time.Hour)},
	}, nil)
	orders.On("ListBetween", mock.Anything,
		mock.MatchedBy(func(start time.Time) bool { return start.Before(currentStart) }),
		mock.Anything,
	).Return([]domain.Order{
		{ID: "order-then", UserID: "user-1", Total: 200, CreatedAt: day("2025-06-08").Add(time.Hour)},
	}, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start:   currentStart,
		End:     day("2025-06-11"),
		Compare: true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(500), report.KPIs.Revenue)
	require.NotNil(t, report.Previous)
	assert.Equal(t, int64(200), report.Previous.Revenue)
	assert.Equal(t, 1, report.Previous.Orders)
}

func TestAnalyticsReport_MissingTablesFallBackToEstimate(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	profiles.On("List", mock.Anything).Return([]domain.Profile{}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New(`ERROR: relation "orders" does not exist (SQLSTATE 42P01)`))
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{}, nil)
	products.On("List", mock.Anything).Return([]domain.Product{
		{ID: "prod-1", Price: 3000},
		{ID: "prod-2", Price: 2000},
	}, nil)

	report, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-11"),
	})

	require.NoError(t, err)
	assert.True(t, report.Estimated)
	// Revenue estimated from list prices; everything order-derived is zero.
	assert.Equal(t, int64(5000), report.KPIs.Revenue)
	assert.Zero(t, report.KPIs.Orders)
	assert.Zero(t, report.KPIs.Customers)
	assert.Empty(t, report.TopProducts)
	require.Len(t, report.Series, 2)
	assert.Zero(t, report.Series[0].Revenue)
}

func TestAnalyticsReport_OtherErrorsPropagate(t *testing.T) {
	products := new(mockProductRepository)
	orders := new(mockOrderRepository)
	profiles := new(mockProfileRepository)
	svc := newAnalyticsService(products, orders, profiles)

	profiles.On("List", mock.Anything).Return([]domain.Profile{}, nil)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))
	orders.On("ListItemsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.ItemSale{}, nil)

	_, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-10"),
		End:   day("2025-06-10"),
	})

	require.Error(t, err)
	products.AssertNotCalled(t, "List", mock.Anything)
}

func TestAnalyticsReport_InvalidRange(t *testing.T) {
	svc := newAnalyticsService(new(mockProductRepository), new(mockOrderRepository), new(mockProfileRepository))

	_, err := svc.Report(context.Background(), domain.ReportRange{
		Start: day("2025-06-11"),
		End:   day("2025-06-10"),
	})

	require.Error(t, err)
}
