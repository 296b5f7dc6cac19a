package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/hub"
	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
	"github.com/bitemebuddy/admin-dashboard/validators"
)

// Broadcaster pushes a live event to connected dashboards.
type Broadcaster interface {
	Broadcast(event string, data interface{}) int
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, interface{}) int { return 0 }

// CatalogService manages services and menu items, which share one shape.
type CatalogService struct {
	db    *gorm.DB
	media MediaStore
	live  Broadcaster
	now   func() time.Time
}

func NewCatalogService(db *gorm.DB, media MediaStore, live Broadcaster) *CatalogService {
	if media == nil {
		media = NoopMediaStore{}
	}
	if live == nil {
		live = noopBroadcaster{}
	}
	return &CatalogService{db: db, media: media, live: live, now: time.Now}
}

// CatalogFilter narrows a listing; "" or "all" disables a field.
type CatalogFilter struct {
	Category string
	Status   string
}

// CatalogInput is the submitted add/edit form.
type CatalogInput struct {
	Name        string
	Price       string
	Discount    string
	Description string
	Category    string
	Status      string
	Position    string
	Photo       io.Reader
	RemovePhoto bool
}

// CatalogResult is a saved item plus any best-effort warnings.
type CatalogResult struct {
	Item     *models.CatalogItem `json:"item"`
	Warnings []string            `json:"warnings,omitempty"`
}

func (s *CatalogService) table(t models.ItemType) *gorm.DB {
	return s.db.Table(t.Table())
}

func (s *CatalogService) List(ctx context.Context, t models.ItemType, f CatalogFilter) ([]models.CatalogItem, error) {
	q := s.table(t).WithContext(ctx)
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}

	var items []models.CatalogItem
	if err := q.Order("position ASC, name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", t, err)
	}
	for i := range items {
		items[i].Type = t
	}
	return items, nil
}

// Categories lists the distinct non-empty categories in use.
func (s *CatalogService) Categories(ctx context.Context, t models.ItemType) ([]string, error) {
	var cats []string
	err := s.table(t).WithContext(ctx).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").Order("category").
		Pluck("category", &cats).Error
	if err != nil {
		return nil, fmt.Errorf("list %s categories: %w", t, err)
	}
	return cats, nil
}

func (s *CatalogService) Get(ctx context.Context, t models.ItemType, id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := s.table(t).WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %d: %w", t, id, err)
	}
	item.Type = t
	return &item, nil
}

func (s *CatalogService) Create(ctx context.Context, t models.ItemType, in CatalogInput, actor string) (*CatalogResult, error) {
	item := &models.CatalogItem{Type: t}
	if err := applyInput(item, t, in); err != nil {
		return nil, err
	}

	result := &CatalogResult{Item: item}
	if in.Photo != nil {
		if asset, err := s.uploadPhoto(ctx, t, item.Name, in.Photo); err != nil {
			utils.ErrorLogger.Errorf("%s photo upload failed: %v", t, err)
			result.Warnings = append(result.Warnings, "Photo upload failed, item saved without photo")
		} else {
			item.Photo = &asset.URL
			item.CloudinaryID = &asset.PublicID
		}
	}

	if strings.TrimSpace(in.Position) == "" {
		var maxPos int
		if err := s.table(t).WithContext(ctx).Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
			return nil, fmt.Errorf("next %s position: %w", t, err)
		}
		item.Position = maxPos + 1
	}

	if err := s.table(t).WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", t, err)
	}

	utils.InfoLogger.Printf("%s '%s' added by admin %s", t.Label(), item.Name, actor)
	s.live.Broadcast(hub.EventCatalogChanged, payload{"item_type": t, "id": item.ID, "action": "created"})
	return result, nil
}

func (s *CatalogService) Update(ctx context.Context, t models.ItemType, id uint, in CatalogInput, actor string) (*CatalogResult, error) {
	item, err := s.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(item, t, in); err != nil {
		return nil, err
	}

	result := &CatalogResult{Item: item}
	oldID := item.CloudinaryID

	switch {
	case in.Photo != nil:
		asset, err := s.uploadPhoto(ctx, t, item.Name, in.Photo)
		if err != nil {
			utils.ErrorLogger.Errorf("%s #%d photo upload failed: %v", t, id, err)
			result.Warnings = append(result.Warnings, "Photo upload failed, using existing photo")
			break
		}
		item.Photo = &asset.URL
		item.CloudinaryID = &asset.PublicID
		if oldID != nil && *oldID != "" {
			s.destroyPhoto(ctx, *oldID)
		}
	case in.RemovePhoto && oldID != nil && *oldID != "":
		s.destroyPhoto(ctx, *oldID)
		item.Photo = nil
		item.CloudinaryID = nil
	}

	if err := s.table(t).WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("update %s %d: %w", t, id, err)
	}

	utils.InfoLogger.Printf("%s #%d updated by admin %s", t.Label(), id, actor)
	s.live.Broadcast(hub.EventCatalogChanged, payload{"item_type": t, "id": id, "action": "updated"})
	return result, nil
}

// Delete removes the item and, best-effort, its hosted photo. The returned
// name is for the confirmation message.
func (s *CatalogService) Delete(ctx context.Context, t models.ItemType, id uint, actor string) (string, error) {
	item, err := s.Get(ctx, t, id)
	if err != nil {
		return "", err
	}

	if item.CloudinaryID != nil && *item.CloudinaryID != "" {
		s.destroyPhoto(ctx, *item.CloudinaryID)
	}

	if err := s.table(t).WithContext(ctx).Where("id = ?", id).Delete(&models.CatalogItem{}).Error; err != nil {
		return "", fmt.Errorf("delete %s %d: %w", t, id, err)
	}

	utils.InfoLogger.Printf("%s #%d deleted by admin %s", t.Label(), id, actor)
	s.live.Broadcast(hub.EventCatalogChanged, payload{"item_type": t, "id": id, "action": "deleted"})
	return item.Name, nil
}

// ToggleStatus flips an item between active and inactive.
func (s *CatalogService) ToggleStatus(ctx context.Context, t models.ItemType, id uint, actor string) (*models.CatalogItem, error) {
	item, err := s.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}
	next := models.ItemActive
	if item.Status == models.ItemActive {
		next = models.ItemInactive
	}
	if err := s.table(t).WithContext(ctx).Where("id = ?", id).Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("toggle %s %d: %w", t, id, err)
	}
	item.Status = next
	utils.InfoLogger.Printf("%s #%d set %s by admin %s", t.Label(), id, next, actor)
	return item, nil
}

func (s *CatalogService) uploadPhoto(ctx context.Context, t models.ItemType, name string, file io.Reader) (*Asset, error) {
	prefix := "service"
	if t == models.ItemMenu {
		prefix = "menu"
	}
	return s.media.Upload(ctx, file, t.MediaFolder(), UploadOptions{
		PublicID:       photoPublicID(prefix, name, s.now()),
		Transformation: photoTransformation,
	})
}

func (s *CatalogService) destroyPhoto(ctx context.Context, publicID string) {
	ok, err := s.media.Destroy(ctx, publicID)
	if err != nil || !ok {
		utils.ErrorLogger.Warnf("could not delete photo %s: ok=%v err=%v", publicID, ok, err)
	}
}

var itemStatuses = []string{string(models.ItemActive), string(models.ItemInactive), string(models.ItemOutOfStock)}

// applyInput validates the form and copies it onto item.
func applyInput(item *models.CatalogItem, t models.ItemType, in CatalogInput) error {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	status := models.ItemStatus(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.ItemActive
	}

	priceOK, _ := validators.Amount(in.Price)
	price, _ := decimal.NewFromString(strings.TrimSpace(in.Price))
	checks := []validators.Result{
		validators.R(name != "", fmt.Sprintf("%s name is required", t.Label())),
		validators.R(priceOK && price.IsPositive(), "Valid price is required"),
	}

	discount := decimal.Zero
	if raw := strings.TrimSpace(in.Discount); raw != "" {
		ok, msg := validators.Amount(raw)
		checks = append(checks, validators.R(ok, "Discount: "+msg))
		if ok {
			discount = decimal.RequireFromString(raw)
		}
	}

	checks = append(checks,
		validators.R(validators.CatalogCategory(category)),
		validators.R(validators.Status(string(status), itemStatuses)),
	)

	position := item.Position
	if raw := strings.TrimSpace(in.Position); raw != "" {
		ok, msg := validators.Position(raw)
		checks = append(checks, validators.R(ok, msg))
		if ok {
			position, _ = strconv.Atoi(raw)
		}
	}

	if msgs := validators.Collect(checks...); len(msgs) > 0 {
		return newValidationError(msgs...)
	}

	item.Name = name
	item.Price = price
	item.Discount = discount
	item.Description = optional(strings.TrimSpace(in.Description))
	item.Category = optional(category)
	item.Status = status
	item.Position = position
	item.Reprice()
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type payload = map[string]interface{}
