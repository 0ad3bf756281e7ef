package productcontroller

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/database/dbtest"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/junaidrashid-git/food-delivery-api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	images := &storage.Images{Dir: t.TempDir()}

	r := gin.New()
	r.GET("/api/products", GetProducts(db))
	r.GET("/api/products/:slug", GetProductBySlug(db))
	r.GET("/api/categories", GetCategories(db))
	r.GET("/api/categories/:slug", GetCategoryBySlug(db))

	p := r.Group("/api/painel")
	p.GET("/produtos", ListProducts(db))
	p.POST("/produtos", CreateProduct(db, images))
	p.PUT("/produtos/:id", UpdateProduct(db, images))
	p.DELETE("/produtos/:id", DeleteProduct(db))
	p.GET("/produtos/export", ExportProductsToExcel(db))
	p.POST("/produtos/import", ImportProductsFromExcel(db))
	p.POST("/categorias", CreateCategory(db, images))
	p.PUT("/categorias/:id", UpdateCategory(db, images))
	p.DELETE("/categorias/:id", DeleteCategory(db, images))
	return r
}

func do(r *gin.Engine, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"X-Burger":             "x-burger",
		"Pão de Queijo":        "pao-de-queijo",
		"  Açaí   com Granola ": "acai-com-granola",
		"Pizza 4 Queijos!":     "pizza-4-queijos",
		"###":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestUniqueSlug_CountsSoftDeletedRows(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Lanches", "lanches")
	p := dbtest.Product(t, db, cat.ID, "X-Burger", "x-burger", "25.90")
	require.NoError(t, db.Delete(&p).Error)

	slug, err := uniqueSlug(db, &models.Product{}, "X Burger", "")
	require.NoError(t, err)
	assert.Equal(t, "x-burger-2", slug)

	slug, err = uniqueSlug(db, &models.Product{}, "X Burger", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "x-burger", slug)
}

func TestGetProducts_FiltersAndSorts(t *testing.T) {
	db := dbtest.Open(t)
	lanches := dbtest.Category(t, db, "Lanches", "lanches")
	bebidas := dbtest.Category(t, db, "Bebidas", "bebidas")
	dbtest.Product(t, db, lanches.ID, "X-Burger", "x-burger", "25.90")
	dbtest.Product(t, db, lanches.ID, "X-Salada", "x-salada", "22.50")
	dbtest.Product(t, db, bebidas.ID, "Suco de Laranja", "suco-de-laranja", "8.00")
	hidden := dbtest.Product(t, db, bebidas.ID, "Refrigerante", "refrigerante", "6.00")
	require.NoError(t, db.Model(&hidden).Update("is_active", false).Error)

	r := newRouter(t, db)
	names := func(path string) []string {
		w := do(r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var products []models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		out := make([]string, len(products))
		for i, p := range products {
			out[i] = p.Name
		}
		return out
	}

	assert.Equal(t, []string{"Suco de Laranja", "X-Burger", "X-Salada"}, names("/api/products"))
	assert.Equal(t, []string{"X-Burger", "X-Salada"}, names("/api/products?category=lanches"))
	assert.Equal(t, []string{"X-Burger", "X-Salada"}, names("/api/products?search=x-"))
	assert.Equal(t, []string{"X-Salada", "Suco de Laranja"}, names("/api/products?max_price=23&sort_by=price&order=desc"))
	assert.Equal(t, []string{"X-Burger"}, names("/api/products?min_price=25"))
	assert.Equal(t, []string{"Suco de Laranja", "X-Burger", "X-Salada"}, names("/api/products?sort_by=1;drop"))

	w := do(r, http.MethodGet, "/api/products?min_price=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductBySlug(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Pizzas", "pizzas")
	p := dbtest.Product(t, db, cat.ID, "Pizza Margherita", "pizza-margherita", "45.90")
	r := newRouter(t, db)

	w := do(r, http.MethodGet, "/api/products/pizza-margherita", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, p.ID, got.ID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Pizzas", got.Category.Name)
	assert.Contains(t, w.Body.String(), `"price":45.9`)

	w = do(r, http.MethodGet, "/api/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "product not found", errorOf(t, w))
}

func TestCategories_Storefront(t *testing.T) {
	db := dbtest.Open(t)
	pizzas := dbtest.Category(t, db, "Pizzas", "pizzas")
	dbtest.Category(t, db, "Bebidas", "bebidas")
	dbtest.Product(t, db, pizzas.ID, "Pizza Margherita", "pizza-margherita", "45.90")
	r := newRouter(t, db)

	w := do(r, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "Bebidas", cats[0].Name)

	w = do(r, http.MethodGet, "/api/categories/pizzas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cat models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	assert.Len(t, cat.Products, 1)

	w = do(r, http.MethodGet, "/api/categories/lanches", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProduct_Validation(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Lanches", "lanches")
	r := newRouter(t, db)

	cases := []struct {
		form url.Values
		want string
	}{
		{url.Values{"price": {"10"}, "categoryId": {cat.ID}}, "name is required"},
		{url.Values{"name": {strings.Repeat("a", 101)}, "price": {"10"}, "categoryId": {cat.ID}}, "name must be at most 100 characters"},
		{url.Values{"name": {"X"}, "price": {"0"}, "categoryId": {cat.ID}}, "price must be greater than zero"},
		{url.Values{"name": {"X"}, "price": {"abc"}, "categoryId": {cat.ID}}, "price must be a number"},
		{url.Values{"name": {"X"}, "price": {"10"}}, "categoryId is required"},
		{url.Values{"name": {"X"}, "price": {"10"}, "categoryId": {"missing"}}, "category not found"},
	}
	for _, tc := range cases {
		w := do(r, http.MethodPost, "/api/painel/produtos", tc.form)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.want)
		assert.Equal(t, tc.want, errorOf(t, w))
	}

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Zero(t, count)
}

func TestProductLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Lanches", "lanches")
	r := newRouter(t, db)

	w := do(r, http.MethodPost, "/api/painel/produtos", url.Values{
		"name":        {"Pão de Queijo"},
		"description": {"Porção com 10"},
		"price":       {"12.5"},
		"categoryId":  {cat.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pao-de-queijo", created.Slug)
	assert.True(t, created.IsActive)
	assert.Equal(t, "12.5", created.Price.String())

	w = do(r, http.MethodPut, "/api/painel/produtos/"+created.ID, url.Values{
		"name":       {"Pão de Queijo Mineiro"},
		"price":      {"14.00"},
		"categoryId": {cat.ID},
		"isActive":   {"false"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "pao-de-queijo-mineiro", updated.Slug)
	assert.False(t, updated.IsActive)

	w = do(r, http.MethodPut, "/api/painel/produtos/missing", url.Values{"name": {"x"}, "price": {"1"}, "categoryId": {cat.ID}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "product not found", errorOf(t, w))

	w = do(r, http.MethodDelete, "/api/painel/produtos/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var live, all int64
	db.Model(&models.Product{}).Count(&live)
	db.Unscoped().Model(&models.Product{}).Count(&all)
	assert.Zero(t, live)
	assert.Equal(t, int64(1), all)

	w = do(r, http.MethodDelete, "/api/painel/produtos/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// failPreloads makes every query that preloads a relation fail.
func failPreloads(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Callback().Query().Before("gorm:query").Register("test:fail_preloads", func(tx *gorm.DB) {
		if len(tx.Statement.Preloads) > 0 {
			_ = tx.AddError(errors.New("connection reset"))
		}
	})
	require.NoError(t, err)
}

func TestSaveProduct_ReloadFailureIsReported(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Lanches", "lanches")
	existing := dbtest.Product(t, db, cat.ID, "Coxinha", "coxinha", "7.00")
	r := newRouter(t, db)
	failPreloads(t, db)

	w := do(r, http.MethodPost, "/api/painel/produtos", url.Values{
		"name":       {"Pastel"},
		"price":      {"9.00"},
		"categoryId": {cat.ID},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to load product", errorOf(t, w))

	w = do(r, http.MethodPut, "/api/painel/produtos/"+existing.ID, url.Values{
		"name":       {"Coxinha de Frango"},
		"price":      {"7.50"},
		"categoryId": {cat.ID},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to load product", errorOf(t, w))
}

func TestCreateProduct_WithImageUpload(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Pizzas", "pizzas")
	r := newRouter(t, db)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Pizza Calabresa"))
	require.NoError(t, mw.WriteField("price", "42.90"))
	require.NoError(t, mw.WriteField("categoryId", cat.ID))
	fw, err := mw.CreateFormFile("image", "calabresa.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("jpeg"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/painel/produtos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.True(t, strings.HasPrefix(p.ImageURL, "/uploads/products/"))
}

func TestDeleteCategory_RefusedWhileReferenced(t *testing.T) {
	db := dbtest.Open(t)
	r := newRouter(t, db)

	w := do(r, http.MethodPost, "/api/painel/categorias", url.Values{"name": {"Sobremesas"}, "color": {"#f59e0b"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	assert.Equal(t, "sobremesas", cat.Slug)

	p := dbtest.Product(t, db, cat.ID, "Pudim", "pudim", "9.90")

	w = do(r, http.MethodDelete, "/api/painel/categorias/"+cat.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, db.Unscoped().Delete(&p).Error)
	w = do(r, http.MethodDelete, "/api/painel/categorias/"+cat.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportProductsFromExcel(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Bebidas", "bebidas")
	existing := dbtest.Product(t, db, cat.ID, "Suco", "suco", "7.00")
	r := newRouter(t, db)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	addRow := func(cells ...string) {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	addRow(productColumns...)
	addRow(existing.ID, "Suco de Laranja", "", "Natural", "8.50", "", "true", cat.ID)
	addRow("", "Água com Gás", "", "", "4.00", "", "true", cat.ID)
	addRow("", "Sem Preço", "", "", "", "", "true", cat.ID)
	addRow("", "Sem Categoria", "", "", "3.00", "", "true", "missing")

	var xl bytes.Buffer
	require.NoError(t, file.Write(&xl))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, _ = fw.Write(xl.Bytes())
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/painel/produtos/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Import completed","createdCount":1,"updatedCount":1,"skippedCount":2}`, w.Body.String())

	var suco models.Product
	require.NoError(t, db.First(&suco, "id = ?", existing.ID).Error)
	assert.Equal(t, "suco-de-laranja", suco.Slug)
	assert.Equal(t, "8.5", suco.Price.String())

	var agua models.Product
	require.NoError(t, db.First(&agua, "slug = ?", "agua-com-gas").Error)
}

func TestExportProductsToExcel(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Bebidas", "bebidas")
	dbtest.Product(t, db, cat.ID, "Suco", "suco", "7.00")
	r := newRouter(t, db)

	w := do(r, http.MethodGet, "/api/painel/produtos/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Suco", rows[1].Cells[1].String())
	assert.Equal(t, "7.00", rows[1].Cells[4].String())
	assert.Equal(t, "Bebidas", rows[1].Cells[8].String())
}
