package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/database"
	"github.com/bitemebuddy/admin-dashboard/hub"
	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

const testCookie = "admin_session"

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

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

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares.AdminSession(testCookie))
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.GenerateToken(1, "admin", string(models.RoleSuperAdmin))
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, r *gin.Engine, method, path string, body io.Reader, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return do(t, r, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

type recordingLive struct {
	mu     sync.Mutex
	events []string
}

func (l *recordingLive) Broadcast(event string, _ interface{}) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return 1
}

type stubMedia struct {
	uploaded []string
}

func (m *stubMedia) Upload(_ context.Context, file io.Reader, folder string, opts services.UploadOptions) (*services.Asset, error) {
	if _, err := io.ReadAll(file); err != nil {
		return nil, err
	}
	id := folder + "/" + opts.PublicID
	m.uploaded = append(m.uploaded, id)
	return &services.Asset{URL: "https://cdn.test/" + id + ".jpg", PublicID: id}, nil
}

func (m *stubMedia) Destroy(context.Context, string) (bool, error) { return true, nil }

func (m *stubMedia) List(_ context.Context, folder string, _ int) ([]services.Asset, error) {
	return []services.Asset{{URL: "https://cdn.test/" + folder + "/a.jpg", PublicID: folder + "/a", Bytes: 2048}}, nil
}

func seedUser(t *testing.T, db *gorm.DB, phone string) models.User {
	t.Helper()
	u := models.User{
		FullName: "Customer " + phone,
		Phone:    phone,
		Email:    phone + "@example.com",
		Location: "Bengaluru",
		Password: "x",
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedOrder(t *testing.T, db *gorm.DB, userID *uint, amount string, status models.OrderStatus) models.Order {
	t.Helper()
	o := models.Order{
		UserID:           userID,
		UserName:         "Customer",
		Items:            `[{"item_name":"Masala Dosa","quantity":2,"price":60}]`,
		TotalAmount:      decimal.RequireFromString(amount),
		PaymentMode:      models.ModeUPI,
		DeliveryLocation: "MG Road",
		Status:           status,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func TestLoginAndLogout(t *testing.T) {
	db := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	ac := NewAdminController(db, testCookie, false)
	r := gin.New()
	r.POST("/admin/login", ac.Login)
	r.POST("/admin/logout", ac.Logout)

	w, env := postForm(t, r, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", env.Message)

	w, env = postForm(t, r, "/admin/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful!", env.Message)
	assert.Contains(t, w.Header().Get("Set-Cookie"), testCookie+"=")

	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &data)
	require.NotEmpty(t, data.Token)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: data.Token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, utils.IsTokenBlacklisted(data.Token))
}

func TestUpdateOrderStatus(t *testing.T) {
	db := setupTestDB(t)
	live := &recordingLive{}
	oc := NewOrderController(db, services.NewOrderService(db, live, nil))
	r := newEngine()
	r.GET("/orders/:id", oc.GetOrder)
	r.POST("/orders/:id/update-status", oc.UpdateStatus)

	user := seedUser(t, db, "9876543210")
	order := seedOrder(t, db, &user.ID, "240", models.OrderConfirmed)
	require.NoError(t, db.Create(&models.Payment{
		OrderID:       &order.ID,
		UserID:        &user.ID,
		Amount:        decimal.NewFromInt(240),
		PaymentMode:   models.ModeUPI,
		PaymentStatus: models.PaymentCompleted,
	}).Error)
	path := fmt.Sprintf("/orders/%d/update-status", order.ID)

	w, env := postForm(t, r, path, url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Status is required", env.Message)

	w, env = postForm(t, r, path, url.Values{"status": {"shipped"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", env.Message)

	w, env = postForm(t, r, "/orders/999/update-status", url.Values{"status": {"cancelled"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", env.Message)

	w, env = postForm(t, r, path, url.Values{"status": {"cancelled"}, "notes": {"customer asked"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order status updated to cancelled", env.Message)

	var data struct {
		NewStatus      string                  `json:"new_status"`
		PreviousStatus string                  `json:"previous_status"`
		Effects        []services.EffectResult `json:"effects"`
	}
	decodeData(t, env, &data)
	assert.Equal(t, "cancelled", data.NewStatus)
	assert.Equal(t, "confirmed", data.PreviousStatus)
	require.Len(t, data.Effects, 3)
	assert.Equal(t, services.EffectRefund, data.Effects[0].Name)

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentRefunded, payment.PaymentStatus)

	var notes int64
	db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&notes)
	assert.EqualValues(t, 1, notes)
	assert.Equal(t, []string{hub.EventOrderStatus}, live.events)

	w, env = do(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order "+order.Number(), env.Message)
}

func TestListUsersAggregates(t *testing.T) {
	db := setupTestDB(t)
	uc := NewUserController(db, nil)
	r := newEngine()
	r.GET("/users", uc.ListUsers)

	buyer := seedUser(t, db, "9000000001")
	seedUser(t, db, "9000000002")
	seedOrder(t, db, &buyer.ID, "100", models.OrderDelivered)
	seedOrder(t, db, &buyer.ID, "50.50", models.OrderPending)

	w, env := do(t, r, http.MethodGet, "/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Items []struct {
			ID           uint   `json:"id"`
			OrderCount   int64  `json:"order_count"`
			TotalSpent   string `json:"total_spent"`
			PhoneDisplay string `json:"phone_display"`
			LastOrder    string `json:"last_order_date_formatted"`
		} `json:"items"`
		Pagination utils.Pagination `json:"pagination"`
	}
	decodeData(t, env, &data)
	require.Len(t, data.Items, 2)
	assert.EqualValues(t, 2, data.Pagination.Total)

	for _, u := range data.Items {
		if u.ID == buyer.ID {
			assert.EqualValues(t, 2, u.OrderCount)
			assert.True(t, decimal.RequireFromString("150.50").Equal(decimal.RequireFromString(u.TotalSpent)))
			assert.NotEmpty(t, u.LastOrder)
			assert.Equal(t, "+91 90000 00001", u.PhoneDisplay)
		} else {
			assert.EqualValues(t, 0, u.OrderCount)
			assert.Empty(t, u.LastOrder)
		}
	}
}

func TestUserDetailAndToggle(t *testing.T) {
	db := setupTestDB(t)
	live := &recordingLive{}
	uc := NewUserController(db, live)
	r := newEngine()
	r.GET("/users/:id", uc.GetUser)
	r.POST("/users/:id/toggle-active", uc.ToggleActive)

	user := seedUser(t, db, "9000000003")
	dosa := models.MenuItem{CatalogItem: models.CatalogItem{Name: "Masala Dosa", Price: decimal.NewFromInt(80), Discount: decimal.NewFromInt(20)}}
	require.NoError(t, db.Create(&dosa).Error)
	require.NoError(t, db.Create(&models.CartEntry{UserID: user.ID, ItemType: models.ItemMenu, ItemID: dosa.ID, Quantity: 2}).Error)

	w, env := do(t, r, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Cart []struct {
			ItemName  string `json:"item_name"`
			ItemPrice string `json:"item_price"`
		} `json:"cart_items"`
	}
	decodeData(t, env, &detail)
	require.Len(t, detail.Cart, 1)
	assert.Equal(t, "Masala Dosa", detail.Cart[0].ItemName)
	assert.True(t, decimal.NewFromInt(60).Equal(decimal.RequireFromString(detail.Cart[0].ItemPrice)))

	w, env = postForm(t, r, fmt.Sprintf("/users/%d/toggle-active", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deactivated successfully", env.Message)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, []string{hub.EventUserToggled}, live.events)

	w, env = postForm(t, r, fmt.Sprintf("/users/%d/toggle-active", user.ID), nil)
	assert.Equal(t, "User activated successfully", env.Message)

	w, _ = do(t, r, http.MethodGet, "/users/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartForm(t *testing.T, fields map[string]string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != nil {
		part, err := mw.CreateFormFile("photo", "dish.jpg")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCatalogCreateWithPhoto(t *testing.T) {
	db := setupTestDB(t)
	media := &stubMedia{}
	cc := NewCatalogController(services.NewCatalogService(db, media, nil), models.ItemService, 2)
	r := newEngine()
	r.POST("/services/add", cc.Create)
	r.GET("/services/:id", cc.Get)

	body, ct := multipartForm(t, map[string]string{"name": "", "price": "abc"}, nil)
	w, env := do(t, r, http.MethodPost, "/services/add", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var invalid struct {
		Errors []string `json:"errors"`
	}
	decodeData(t, env, &invalid)
	assert.Contains(t, invalid.Errors, "Service name is required")
	assert.Contains(t, invalid.Errors, "Valid price is required")

	body, ct = multipartForm(t, map[string]string{
		"name": "Deep Cleaning", "price": "200", "discount": "50", "category": "Home",
	}, []byte("jpeg-bytes"))
	w, env = do(t, r, http.MethodPost, "/services/add", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Service 'Deep Cleaning' added successfully!", env.Message)

	var created services.CatalogResult
	decodeData(t, env, &created)
	assert.True(t, decimal.NewFromInt(150).Equal(created.Item.FinalPrice))
	require.NotNil(t, created.Item.Photo)
	assert.Len(t, media.uploaded, 1)
	assert.Empty(t, created.Warnings)

	w, env = do(t, r, http.MethodGet, fmt.Sprintf("/services/%d", created.Item.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Discount float64 `json:"discount_percentage"`
	}
	decodeData(t, env, &detail)
	assert.Equal(t, 25.0, detail.Discount)
}

func TestAddressesPersistMapsLink(t *testing.T) {
	db := setupTestDB(t)
	ac := NewAddressController(db)
	r := newEngine()
	r.GET("/addresses", ac.ListAddresses)

	user := seedUser(t, db, "9000000004")
	addr := models.Address{
		UserID:       &user.ID,
		FullName:     "Asha",
		Phone:        "9000000004",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
		Latitude:     decimal.NewNullDecimal(decimal.RequireFromString("12.9716")),
		Longitude:    decimal.NewNullDecimal(decimal.RequireFromString("77.5946")),
	}
	require.NoError(t, db.Create(&addr).Error)

	w, env := do(t, r, http.MethodGet, "/addresses", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Items []struct {
			UserName string `json:"user_name"`
			Link     string `json:"google_maps_link"`
		} `json:"items"`
	}
	decodeData(t, env, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, user.FullName, data.Items[0].UserName)
	assert.Equal(t, "https://www.google.com/maps?q=12.9716,77.5946", data.Items[0].Link)

	var stored models.Address
	require.NoError(t, db.First(&stored, addr.ID).Error)
	require.NotNil(t, stored.GoogleMapsLink)
	assert.Equal(t, data.Items[0].Link, *stored.GoogleMapsLink)
}

func TestPaymentsFilter(t *testing.T) {
	db := setupTestDB(t)
	pc := NewPaymentController(db)
	r := newEngine()
	r.GET("/payments", pc.ListPayments)

	user := seedUser(t, db, "9000000005")
	order := seedOrder(t, db, &user.ID, "300", models.OrderPending)
	for _, st := range []models.PaymentStatus{models.PaymentPending, models.PaymentCompleted} {
		require.NoError(t, db.Create(&models.Payment{
			OrderID: &order.ID, UserID: &user.ID, Amount: decimal.NewFromInt(300),
			PaymentMode: models.ModeUPI, PaymentStatus: st,
		}).Error)
	}

	w, env := do(t, r, http.MethodGet, "/payments?status=completed", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Items []struct {
			Status      string `json:"payment_status"`
			OrderNumber string `json:"order_number"`
			UserName    string `json:"user_name"`
		} `json:"items"`
	}
	decodeData(t, env, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "completed", data.Items[0].Status)
	assert.Equal(t, order.Number(), data.Items[0].OrderNumber)
	assert.Equal(t, user.FullName, data.Items[0].UserName)
}

func TestReviewsFilterAndToggle(t *testing.T) {
	db := setupTestDB(t)
	live := &recordingLive{}
	rc := NewReviewController(db, live)
	r := newEngine()
	r.GET("/reviews", rc.ListReviews)
	r.POST("/reviews/:id/toggle-approval", rc.ToggleApproval)

	user := seedUser(t, db, "9000000006")
	svc := models.Service{CatalogItem: models.CatalogItem{Name: "Laundry", Price: decimal.NewFromInt(99)}}
	require.NoError(t, db.Create(&svc).Error)
	comment := "Quick and tidy"
	review := models.Review{UserID: &user.ID, ItemType: models.ItemService, ItemID: svc.ID, Rating: 4, Comment: &comment}
	require.NoError(t, db.Create(&review).Error)

	w, env := do(t, r, http.MethodGet, "/reviews?approved=no", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Items []struct {
			ItemName string `json:"item_name"`
			Stars    string `json:"stars"`
		} `json:"items"`
	}
	decodeData(t, env, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Laundry", data.Items[0].ItemName)
	assert.Equal(t, "★★★★☆", data.Items[0].Stars)

	w, env = postForm(t, r, fmt.Sprintf("/reviews/%d/toggle-approval", review.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Review approved successfully", env.Message)
	assert.Equal(t, []string{hub.EventReviewModerated}, live.events)

	_, env = do(t, r, http.MethodGet, "/reviews?approved=no", nil, "")
	decodeData(t, env, &data)
	assert.Empty(t, data.Items)

	w, _ = postForm(t, r, "/reviews/999/toggle-approval", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationsList(t *testing.T) {
	db := setupTestDB(t)
	nc := NewNotificationController(db)
	r := newEngine()
	r.GET("/notifications", nc.ListNotifications)

	user := seedUser(t, db, "9000000007")
	require.NoError(t, db.Create(&models.Notification{UserID: &user.ID, Title: "Hi", Message: "Welcome", Type: models.NotifySystem}).Error)

	w, env := do(t, r, http.MethodGet, "/notifications", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Items []struct {
			TypeLabel string `json:"type_label"`
			UserName  string `json:"user_name"`
		} `json:"items"`
		Unread int `json:"unread"`
	}
	decodeData(t, env, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "System", data.Items[0].TypeLabel)
	assert.Equal(t, user.FullName, data.Items[0].UserName)
	assert.Equal(t, 1, data.Unread)
}

func TestHealthAndChartWithoutData(t *testing.T) {
	db := setupTestDB(t)
	sc := NewSystemController(database.NewMaintenance(db), &stubMedia{}, "BiteMeBuddy Admin Dashboard", 0)
	dc := NewDashboardController(services.NewReportService(db), services.NewExporter("BiteMeBuddy"))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", sc.Health)
	r.GET("/media", sc.ListMedia)
	r.GET("/chart/revenue.png", dc.RevenueChartPNG)
	r.GET("/stats", dc.Stats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "BiteMeBuddy Admin Dashboard", health["service"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chart/revenue.png?type=weekly", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env := do(t, r, http.MethodGet, "/stats?period=bogus", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats services.PeriodStats
	decodeData(t, env, &stats)
	assert.Equal(t, "today", stats.Period)
	assert.EqualValues(t, 0, stats.OrderCount)

	w, env = do(t, r, http.MethodGet, "/media?folder=menu_items", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"size":"2.0 KB"`)
}
