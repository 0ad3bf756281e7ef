package dashboardController

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/junaidrashid-git/food-delivery-api/pricing"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	chartDays     = 30
	recentOrders  = 10
	chartDayLabel = "02/01/2006"
)

type ChartPoint struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Stats struct {
	TotalProducts   int64           `json:"totalProducts"`
	TotalCategories int64           `json:"totalCategories"`
	TotalOrders     int64           `json:"totalOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	RecentOrders    []models.Order  `json:"recentOrders"`
	ChartData       []ChartPoint    `json:"chartData"`
}

type orderPoint struct {
	CreatedAt time.Time
	Total     decimal.Decimal
}

// Collect runs the dashboard queries concurrently. The first failure
// cancels the rest.
func Collect(ctx context.Context, db *gorm.DB, loc *time.Location, now time.Time) (Stats, error) {
	var (
		stats  Stats
		totals []decimal.Decimal
		points []orderPoint
	)

	g, ctx := errgroup.WithContext(ctx)
	q := func() *gorm.DB { return db.WithContext(ctx) }

	g.Go(func() error {
		return q().Model(&models.Product{}).Count(&stats.TotalProducts).Error
	})
	g.Go(func() error {
		return q().Model(&models.Category{}).Count(&stats.TotalCategories).Error
	})
	g.Go(func() error {
		return q().Model(&models.Order{}).Count(&stats.TotalOrders).Error
	})
	g.Go(func() error {
		return q().Model(&models.Order{}).Pluck("total", &totals).Error
	})
	g.Go(func() error {
		return q().
			Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
			Preload("Items.Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
			Order("created_at DESC").
			Limit(recentOrders).
			Find(&stats.RecentOrders).Error
	})
	g.Go(func() error {
		return q().Model(&models.Order{}).
			Select("created_at", "total").
			Where("created_at >= ?", now.AddDate(0, 0, -chartDays).UTC()).
			Scan(&points).Error
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	stats.TotalRevenue = pricing.Sum(totals)
	stats.ChartData = BuildChart(points, loc)
	if stats.RecentOrders == nil {
		stats.RecentOrders = []models.Order{}
	}
	return stats, nil
}

// BuildChart buckets orders by calendar day in loc, oldest day first.
// Days without orders are left out.
func BuildChart(points []orderPoint, loc *time.Location) []ChartPoint {
	type bucket struct {
		day time.Time
		ChartPoint
	}
	buckets := make(map[string]*bucket)
	for _, p := range points {
		local := p.CreatedAt.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		key := day.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{day: day, ChartPoint: ChartPoint{Date: day.Format(chartDayLabel), Revenue: decimal.Zero}}
			buckets[key] = b
		}
		b.Orders++
		b.Revenue = b.Revenue.Add(p.Total)
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		sorted = append(sorted, b)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].day.Before(sorted[j].day) })

	chart := make([]ChartPoint, len(sorted))
	for i, b := range sorted {
		chart[i] = b.ChartPoint
	}
	return chart
}

// GetStats serves GET /api/dashboard/stats.
func GetStats(db *gorm.DB, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := Collect(c.Request.Context(), db, loc, time.Now())
		if err != nil {
			apperr.Respond(c, err, "Failed to fetch dashboard statistics")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
