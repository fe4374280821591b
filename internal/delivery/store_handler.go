package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
)

type StoreHandler struct {
	useCase domain.StoreUseCase
	log     *logrus.Logger
}

func NewStoreHandler(uc domain.StoreUseCase, logger *logrus.Logger) *StoreHandler {
	return &StoreHandler{useCase: uc, log: logger}
}

type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Description string `json:"description"`
}

type UpdateStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	store, err := h.useCase.CreateStore(c.Request.Context(), middleware.UserID(c), req.Name, req.Username, req.Description)
	if err != nil {
		h.log.Warnf("Failed to create store %s: %v", req.Username, err)
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Store created successfully", store)
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	store, err := h.useCase.GetStoreByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Store retrieved successfully", store)
}

func (h *StoreHandler) ListStores(c *gin.Context) {
	limit, offset := pagination(c)
	stores, err := h.useCase.ListStores(c.Request.Context(), limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Stores retrieved successfully", stores)
}

func (h *StoreHandler) UpdateStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	store, err := h.useCase.UpdateStore(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id, req.Name, req.Description)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Store updated successfully", store)
}

func (h *StoreHandler) DeleteStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.DeleteStore(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id); err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Store deleted successfully", nil)
}
