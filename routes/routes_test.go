package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/auth"
	orderControllers "github.com/junaidrashid-git/food-delivery-api/controllers/order"
	"github.com/junaidrashid-git/food-delivery-api/database/dbtest"
	"github.com/junaidrashid-git/food-delivery-api/events"
	"github.com/junaidrashid-git/food-delivery-api/notify"
	"github.com/junaidrashid-git/food-delivery-api/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSetupRoutes_Protection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	fee := decimal.RequireFromString("5")
	app := &App{
		DB:       db,
		Images:   &storage.Images{Dir: t.TempDir()},
		Sessions: &auth.Resolver{Sessions: auth.NewDBSessions(db), Cookie: "session_token"},
		Orders: &orderControllers.Deps{
			DB: db, Feed: orderControllers.NewHub(), Events: events.Noop{}, Mailer: notify.Noop{}, DeliveryFee: fee,
		},
		AdminAPIKey: "painel-key",
		DeliveryFee: fee,
		Location:    time.UTC,
	}
	r := gin.New()
	SetupRoutes(r, app)

	cases := []struct {
		method, path, key string
		want              int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/products", "", http.StatusOK},
		{http.MethodGet, "/api/categories", "", http.StatusOK},
		{http.MethodGet, "/api/banners/active", "", http.StatusNotFound},
		{http.MethodGet, "/api/orders/my-orders", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/orders/all", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/orders/all", "painel-key", http.StatusOK},
		{http.MethodGet, "/api/dashboard/stats", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/dashboard/stats", "painel-key", http.StatusOK},
		{http.MethodGet, "/api/painel/produtos", "wrong", http.StatusUnauthorized},
		{http.MethodGet, "/api/painel/produtos", "painel-key", http.StatusOK},
		{http.MethodGet, "/api/painel/pedidos", "painel-key", http.StatusOK},
		{http.MethodGet, "/api/painel/categorias", "painel-key", http.StatusOK},
		{http.MethodGet, "/api/painel/banners", "painel-key", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path+" "+tc.key, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.key != "" {
				req.Header.Set("X-API-KEY", tc.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
