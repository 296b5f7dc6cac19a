package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

var errInternal = errors.New("Something went wrong, please try again")

// ListResponse is the payload of every paginated endpoint.
type ListResponse struct {
	Items      interface{}      `json:"items"`
	Pagination utils.Pagination `json:"pagination"`
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service errors to HTTP. Unknown errors are logged
// and reported generically.
func respondServiceError(c *gin.Context, action string, err error) {
	if v, ok := services.AsValidation(err); ok {
		utils.RespondValidation(c, http.StatusBadRequest, v.Messages)
		return
	}

	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
	case errors.Is(err, services.ErrItemNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("Item not found"))
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("User not found"))
	case errors.Is(err, services.ErrReviewNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("Review not found"))
	case errors.Is(err, services.ErrAdminNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("Admin not found"))
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid status"))
	case errors.Is(err, services.ErrTransitionRejected):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid username or password"))
	case errors.Is(err, services.ErrAdminInactive):
		utils.RespondError(c, http.StatusForbidden, errors.New("Account is disabled"))
	case errors.Is(err, services.ErrMediaUnavailable):
		utils.RespondError(c, http.StatusServiceUnavailable, err)
	default:
		utils.ErrorLogger.Errorf("%s: %v", action, err)
		c.Error(err)
		utils.RespondError(c, http.StatusInternalServerError, errInternal)
	}
}
