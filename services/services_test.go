package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/database"
	"github.com/bitemebuddy/admin-dashboard/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, "admin123"))
	return db
}

// fakeMedia records every call made to the media host.
type fakeMedia struct {
	mu         sync.Mutex
	uploads    []UploadOptions
	destroyed  []string
	uploadErr  error
	destroyErr error
}

func (f *fakeMedia) Upload(_ context.Context, file io.Reader, folder string, opts UploadOptions) (*Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if _, err := io.ReadAll(file); err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, opts)
	id := folder + "/" + opts.PublicID
	return &Asset{URL: "https://cdn.test/" + id + ".jpg", PublicID: id}, nil
}

func (f *fakeMedia) Destroy(_ context.Context, publicID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, publicID)
	if f.destroyErr != nil {
		return false, f.destroyErr
	}
	return true, nil
}

func (f *fakeMedia) List(context.Context, string, int) ([]Asset, error) {
	return nil, errors.New("not used")
}

type sentEvent struct {
	Event string
	Data  interface{}
}

type fakeLive struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeLive) Broadcast(event string, data interface{}) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{event, data})
	return 1
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedUser(t *testing.T, db *gorm.DB, phone string, created time.Time) models.User {
	t.Helper()
	u := models.User{
		FullName:  "Customer " + phone,
		Phone:     phone,
		Email:     phone + "@example.com",
		Location:  "Bengaluru",
		Password:  "x",
		IsActive:  true,
		CreatedAt: created,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedOrder(t *testing.T, db *gorm.DB, userID *uint, amount string, status models.OrderStatus, mode models.PaymentMode, at time.Time) models.Order {
	t.Helper()
	o := models.Order{
		UserID:           userID,
		UserName:         "Customer",
		Items:            `[{"item_name":"Paneer Tikka","quantity":1,"price":100}]`,
		TotalAmount:      decimal.RequireFromString(amount),
		PaymentMode:      mode,
		DeliveryLocation: "MG Road",
		OrderDate:        at.UTC(),
		Status:           status,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}
