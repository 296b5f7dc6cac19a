package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// ListOrders -> GET /dashboard/orders?status=&page=
func (oc *OrderController) ListOrders(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	page, perPage, _ := utils.ParsePageParams(c)

	rows, total, err := oc.Orders.List(c.Request.Context(), services.OrderFilter{
		Status: status, Page: page, PerPage: perPage,
	})
	if err != nil {
		respondServiceError(c, "list orders", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orders", gin.H{
		"items":      rows,
		"status":     status,
		"statuses":   models.AllOrderStatuses(),
		"pagination": utils.Paginate(page, perPage, total, c.Request.URL.Path, url.Values{"status": {status}}),
	})
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := oc.Orders.Detail(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "order detail", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order "+detail.Number, detail)
}

type statusRequest struct {
	Status string `form:"status" json:"status"`
	Notes  string `form:"notes" json:"notes"`
}

// UpdateStatus -> POST /dashboard/orders/:id/update-status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Status is required"))
		return
	}

	change, err := oc.Orders.SetStatus(c.Request.Context(), id, req.Status, req.Notes, middlewares.ActorName(c))
	if err != nil {
		respondServiceError(c, "update order status", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Order status updated to %s", change.Order.Status), gin.H{
		"new_status":      change.Order.Status,
		"previous_status": change.Previous,
		"order":           change.Order,
		"effects":         change.Effects,
	})
}
