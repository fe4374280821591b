package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/cache"
	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	cache   cache.Cache
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, c cache.Cache, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{useCase: uc, cache: c, log: logger}
}

type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := middleware.UserID(c)

	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	orders, err := h.useCase.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		if len(orders) == 0 {
			h.log.Warnf("Checkout failed for user %d: %v", userID, err)
			RespondError(c, err)
			return
		}
		// Every group committed and only the cart reset failed. The
		// checkout succeeded from the client's perspective; the stale
		// cart sorts itself out on the next cart write.
		h.log.Errorf("Checkout committed for user %d but cart reset failed: %v", userID, err)
	}

	// Checkout consumed the cart; the touched product entries are stale now.
	keys := make([]string, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			keys = append(keys, h.cache.GenerateKey("product", strconv.FormatInt(item.ProductID, 10)))
		}
	}
	if err := h.cache.Del(c.Request.Context(), keys...); err != nil {
		h.log.Warnf("Cache invalidation after checkout failed for user %d: %v", userID, err)
	}

	h.log.Infof("Checkout complete for user %d: %d order(s)", userID, len(orders))
	if len(orders) == 1 {
		SuccessResponse(c, http.StatusCreated, "Order created successfully", orders[0])
		return
	}
	SuccessResponse(c, http.StatusCreated, "Orders created successfully", orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.useCase.GetOrderByID(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.useCase.ListMyOrders(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) ListStoreOrders(c *gin.Context) {
	storeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	orders, err := h.useCase.ListStoreOrders(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), storeID, limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.UpdateOrderStatus(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.useCase.CancelOrder(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order cancelled successfully", order)
}
