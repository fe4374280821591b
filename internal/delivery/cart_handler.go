package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
	"github.com/Sezy0/NeoMart-Backend/internal/usecase"
)

type CartHandler struct {
	useCase usecase.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc usecase.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{useCase: uc, log: logger}
}

type PutCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	items, err := h.useCase.GetCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", items)
}

func (h *CartHandler) PutItem(c *gin.Context) {
	var req PutCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	items, err := h.useCase.PutItem(c.Request.Context(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart updated successfully", items)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}
	items, err := h.useCase.RemoveItem(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Item removed from cart", items)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.useCase.ClearCart(c.Request.Context(), middleware.UserID(c)); err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart cleared", nil)
}
