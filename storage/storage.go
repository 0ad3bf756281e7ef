// Package storage saves uploaded images under the upload directory that
// main serves at /uploads.
package storage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
)

const PublicPrefix = "/uploads"

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// Images stores files under Dir/<subdir> and addresses them as /uploads/<subdir>/<name>.
type Images struct {
	Dir string
}

// SaveFromForm stores the multipart file in field, if the client sent one.
// It returns "" and no error when the field is absent.
func (s *Images) SaveFromForm(c *gin.Context, field, subdir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	return s.Save(c, file, subdir)
}

// Save writes file with a timestamped, sanitised name and returns its public URL.
func (s *Images) Save(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExt[ext] {
		return "", apperr.Invalid("unsupported image type %q", ext)
	}
	base := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	base = unsafeChars.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	dir := filepath.Join(s.Dir, subdir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", PublicPrefix, subdir, filename), nil
}

// Remove deletes a file previously returned by Save. External URLs are ignored.
func (s *Images) Remove(publicURL string) error {
	if !strings.HasPrefix(publicURL, PublicPrefix+"/") {
		return nil
	}
	rel := filepath.Clean(strings.TrimPrefix(publicURL, PublicPrefix+"/"))
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("refusing to remove %q", publicURL)
	}
	if err := os.Remove(filepath.Join(s.Dir, rel)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
