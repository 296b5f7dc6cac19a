package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

// CatalogController serves one catalog table; the router mounts one per
// item type.
type CatalogController struct {
	Catalog   *services.CatalogService
	Type      models.ItemType
	MaxUpload int64
}

func NewCatalogController(catalog *services.CatalogService, t models.ItemType, maxUploadMB int) *CatalogController {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &CatalogController{Catalog: catalog, Type: t, MaxUpload: int64(maxUploadMB) << 20}
}

func (cc *CatalogController) List(c *gin.Context) {
	ctx := c.Request.Context()
	filter := services.CatalogFilter{
		Category: c.DefaultQuery("category", "all"),
		Status:   c.DefaultQuery("status", "all"),
	}

	items, err := cc.Catalog.List(ctx, cc.Type, filter)
	if err != nil {
		respondServiceError(c, "list "+string(cc.Type), err)
		return
	}
	categories, err := cc.Catalog.Categories(ctx, cc.Type)
	if err != nil {
		respondServiceError(c, "list "+string(cc.Type)+" categories", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, cc.Type.Label()+" items", gin.H{
		"items":      items,
		"categories": categories,
		"category":   filter.Category,
		"status":     filter.Status,
	})
}

func (cc *CatalogController) Categories(c *gin.Context) {
	categories, err := cc.Catalog.Categories(c.Request.Context(), cc.Type)
	if err != nil {
		respondServiceError(c, "list "+string(cc.Type)+" categories", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, cc.Type.Label()+" categories", categories)
}

func (cc *CatalogController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := cc.Catalog.Get(c.Request.Context(), cc.Type, id)
	if err != nil {
		respondServiceError(c, "load "+string(cc.Type), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, item.Name, gin.H{
		"item":                item,
		"discount_percentage": utils.DiscountPercentage(item.Price, item.FinalPrice),
	})
}

// readForm collects the add/edit form. The returned closer releases the
// uploaded photo, if any.
func (cc *CatalogController) readForm(c *gin.Context) (services.CatalogInput, io.Closer, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cc.MaxUpload)

	in := services.CatalogInput{
		Name:        c.PostForm("name"),
		Price:       c.PostForm("price"),
		Discount:    c.PostForm("discount"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Status:      c.PostForm("status"),
		Position:    c.PostForm("position"),
		RemovePhoto: c.PostForm("remove_photo") == "1" || c.PostForm("remove_photo") == "true",
	}

	header, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, fmt.Errorf("read photo: %w", err)
	}
	if header.Size == 0 {
		return in, nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return in, nil, fmt.Errorf("open photo: %w", err)
	}
	in.Photo = file
	return in, file, nil
}

func (cc *CatalogController) Create(c *gin.Context) {
	in, closer, err := cc.readForm(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	result, err := cc.Catalog.Create(c.Request.Context(), cc.Type, in, middlewares.ActorName(c))
	if err != nil {
		respondServiceError(c, "add "+string(cc.Type), err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, fmt.Sprintf("%s '%s' added successfully!", cc.Type.Label(), result.Item.Name), result)
}

func (cc *CatalogController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	in, closer, err := cc.readForm(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	result, err := cc.Catalog.Update(c.Request.Context(), cc.Type, id, in, middlewares.ActorName(c))
	if err != nil {
		respondServiceError(c, "edit "+string(cc.Type), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("%s '%s' updated successfully!", cc.Type.Label(), result.Item.Name), result)
}

func (cc *CatalogController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	name, err := cc.Catalog.Delete(c.Request.Context(), cc.Type, id, middlewares.ActorName(c))
	if err != nil {
		respondServiceError(c, "delete "+string(cc.Type), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("%s '%s' deleted successfully!", cc.Type.Label(), name), nil)
}

func (cc *CatalogController) ToggleStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := cc.Catalog.ToggleStatus(c.Request.Context(), cc.Type, id, middlewares.ActorName(c))
	if err != nil {
		respondServiceError(c, "toggle "+string(cc.Type), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("%s '%s' is now %s", cc.Type.Label(), item.Name, item.Status), item)
}
