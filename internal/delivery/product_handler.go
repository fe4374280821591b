package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
)

type ProductHandler struct {
	useCase domain.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{useCase: uc, log: logger}
}

type CreateProductRequest struct {
	StoreID     int64   `json:"store_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	InStock     bool    `json:"in_stock"`
	ImageURL    string  `json:"image_url"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), &domain.Product{
		StoreID:     req.StoreID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		InStock:     req.InStock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.log.Warnf("Failed to create product %s: %v", req.Name, err)
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, offset := pagination(c)

	var storeID int64
	if raw := c.Query("store_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid store_id parameter")
			return
		}
		storeID = parsed
	}

	products, err := h.useCase.ListProducts(c.Request.Context(), storeID, limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.DeleteProduct(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id); err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}
