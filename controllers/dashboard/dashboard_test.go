package dashboardController

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/database/dbtest"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func TestBuildChart_BucketsByLocalDay(t *testing.T) {
	loc := saoPaulo(t)
	points := []orderPoint{
		{CreatedAt: time.Date(2026, 10, 10, 15, 0, 0, 0, time.UTC), Total: d("30.90")},
		{CreatedAt: time.Date(2026, 10, 10, 2, 0, 0, 0, time.UTC), Total: d("20")},
		{CreatedAt: time.Date(2026, 10, 9, 12, 0, 0, 0, time.UTC), Total: d("10.10")},
		{CreatedAt: time.Date(2026, 10, 10, 20, 0, 0, 0, time.UTC), Total: d("9.10")},
	}

	chart := BuildChart(points, loc)

	require.Len(t, chart, 2)
	assert.Equal(t, "09/10/2026", chart[0].Date)
	assert.Equal(t, 2, chart[0].Orders)
	assert.True(t, chart[0].Revenue.Equal(d("30.10")))
	assert.Equal(t, "10/10/2026", chart[1].Date)
	assert.Equal(t, 2, chart[1].Orders)
	assert.True(t, chart[1].Revenue.Equal(d("40")))
}

func TestBuildChart_Empty(t *testing.T) {
	assert.Empty(t, BuildChart(nil, time.UTC))
}

func TestCollect(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Pizzas", "pizzas")
	dbtest.Category(t, db, "Bebidas", "bebidas")
	dbtest.Product(t, db, cat.ID, "Pizza", "pizza", "40.00")
	gone := dbtest.Product(t, db, cat.ID, "Calzone", "calzone", "35.00")

	now := time.Now().UTC()
	revenue := decimal.Zero
	for i := 0; i < 12; i++ {
		total := d("45").Add(decimal.NewFromInt(int64(i)))
		order := models.Order{
			CustomerName:  "Cliente",
			CustomerPhone: "1",
			Total:         total,
			CreatedAt:     now.Add(-time.Duration(i) * time.Hour),
			Items:         []models.OrderItem{{ProductID: gone.ID, Quantity: 1, Price: d("35")}},
		}
		require.NoError(t, db.Create(&order).Error)
		revenue = revenue.Add(total)
	}
	old := models.Order{CustomerName: "Antigo", CustomerPhone: "1", Total: d("99.99"), CreatedAt: now.AddDate(0, 0, -45)}
	require.NoError(t, db.Create(&old).Error)
	revenue = revenue.Add(old.Total)
	require.NoError(t, db.Delete(&gone).Error)

	stats, err := Collect(context.Background(), db, time.UTC, now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.TotalCategories)
	assert.Equal(t, int64(13), stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(revenue), "%s != %s", stats.TotalRevenue, revenue)

	require.Len(t, stats.RecentOrders, 10)
	require.Len(t, stats.RecentOrders[0].Items, 1)
	require.NotNil(t, stats.RecentOrders[0].Items[0].Product)
	assert.Equal(t, "Calzone", stats.RecentOrders[0].Items[0].Product.Name)

	chartOrders := 0
	for _, p := range stats.ChartData {
		chartOrders += p.Orders
	}
	assert.Equal(t, 12, chartOrders)
}

func TestGetStats_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&models.Order{CustomerName: "A", CustomerPhone: "1", Total: d("10.50")}).Error)
	require.NoError(t, db.Create(&models.Order{CustomerName: "B", CustomerPhone: "1", Total: d("4.25")}).Error)

	r := gin.New()
	r.GET("/api/dashboard/stats", GetStats(db, saoPaulo(t)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `14.75`, string(body["totalRevenue"]))
	assert.JSONEq(t, `2`, string(body["totalOrders"]))
	for _, key := range []string{"totalProducts", "totalCategories", "recentOrders", "chartData"} {
		assert.Contains(t, body, key)
	}
}
