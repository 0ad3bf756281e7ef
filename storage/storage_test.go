package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartContext(t *testing.T, field, filename string) *gin.Context {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("fake image"))
	}
	require.NoError(t, w.WriteField("title", "x"))
	require.NoError(t, w.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", &body)
	c.Request.Header.Set("Content-Type", w.FormDataContentType())
	return c
}

func TestSaveFromForm_StoresAndRemoves(t *testing.T) {
	gin.SetMode(gin.TestMode)
	images := &Images{Dir: t.TempDir()}

	url, err := images.SaveFromForm(multipartContext(t, "image", "my pizza.png"), "image", "products")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/products/"))
	assert.True(t, strings.HasSuffix(url, "_my_pizza.png"))

	path := filepath.Join(images.Dir, strings.TrimPrefix(url, "/uploads/"))
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, images.Remove(url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveFromForm_MissingFileIsNotAnError(t *testing.T) {
	images := &Images{Dir: t.TempDir()}
	url, err := images.SaveFromForm(multipartContext(t, "image", ""), "image", "banners")
	assert.NoError(t, err)
	assert.Empty(t, url)
}

func TestSave_RejectsNonImages(t *testing.T) {
	images := &Images{Dir: t.TempDir()}
	_, err := images.SaveFromForm(multipartContext(t, "image", "script.sh"), "image", "banners")
	assert.Error(t, err)
}

func TestRemove_IgnoresExternalAndTraversal(t *testing.T) {
	images := &Images{Dir: t.TempDir()}
	assert.NoError(t, images.Remove("https://images.unsplash.com/photo.jpg"))
	assert.Error(t, images.Remove("/uploads/../../etc/passwd"))
}
