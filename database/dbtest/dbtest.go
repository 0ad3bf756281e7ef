// Package dbtest opens isolated, migrated in-memory databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/junaidrashid-git/food-delivery-api/database"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database named after the test, with foreign keys on.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Category inserts an active category.
func Category(t testing.TB, db *gorm.DB, name, slug string) models.Category {
	t.Helper()
	c := models.Category{Name: name, Slug: slug, IsActive: true}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// Product inserts an active product priced from a decimal string.
func Product(t testing.TB, db *gorm.DB, categoryID, name, slug, price string) models.Product {
	t.Helper()
	p := models.Product{
		Name:       name,
		Slug:       slug,
		Price:      decimal.RequireFromString(price),
		IsActive:   true,
		CategoryID: categoryID,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

// User inserts a user and a live session for it, returning the session token.
func User(t testing.TB, db *gorm.DB, email string) (models.User, string) {
	t.Helper()
	u := models.User{Name: email, Email: email}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token := "tok-" + u.ID
	s := models.Session{Token: token, UserID: u.ID, ExpiresAt: time.Now().UTC().Add(time.Hour)}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return u, token
}
