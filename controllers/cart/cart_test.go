package cartControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/database/dbtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Pizzas", "pizzas")
	pizza := dbtest.Product(t, db, cat.ID, "Pizza Margherita", "pizza-margherita", "45.90")

	r := gin.New()
	r.POST("/api/cart/quote", QuoteCart(db, decimal.RequireFromString("5.00")))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/quote", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"items":[{"id":"` + pizza.ID + `","quantity":2}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got struct {
		Items     []QuoteLine     `json:"items"`
		ItemCount int             `json:"itemCount"`
		Subtotal  decimal.Decimal `json:"subtotal"`
		Total     decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Pizza Margherita", got.Items[0].Name)
	assert.Equal(t, 2, got.ItemCount)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("91.80")))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("96.80")))

	w = post(`{"items":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":5`)

	w = post(`{"items":[{"id":"nope","quantity":1}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(`{"items":[{"id":"` + pizza.ID + `","quantity":0}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"quantity must be at least 1"}`, w.Body.String())
}
