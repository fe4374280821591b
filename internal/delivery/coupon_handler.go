package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
)

type CouponHandler struct {
	useCase domain.CouponUseCase
	log     *logrus.Logger
}

func NewCouponHandler(uc domain.CouponUseCase, logger *logrus.Logger) *CouponHandler {
	return &CouponHandler{useCase: uc, log: logger}
}

type CouponRequest struct {
	Code         string              `json:"code" binding:"required"`
	Discount     float64             `json:"discount" binding:"required"`
	DiscountType domain.DiscountType `json:"discount_type" binding:"required"`
	IsActive     bool                `json:"is_active"`
	ExpiresAt    time.Time           `json:"expires_at" binding:"required"`
	UsageLimit   int                 `json:"usage_limit"`
}

type PreviewCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required"`
}

func (r *CouponRequest) toDomain() *domain.Coupon {
	return &domain.Coupon{
		Code:         r.Code,
		Discount:     r.Discount,
		DiscountType: r.DiscountType,
		IsActive:     r.IsActive,
		ExpiresAt:    r.ExpiresAt,
		UsageLimit:   r.UsageLimit,
	}
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	coupon, err := h.useCase.CreateCoupon(c.Request.Context(), middleware.UserRole(c), req.toDomain())
	if err != nil {
		h.log.Warnf("Failed to create coupon %s: %v", req.Code, err)
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Coupon created successfully", coupon)
}

func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.useCase.GetCouponByCode(c.Request.Context(), middleware.UserRole(c), c.Param("code"))
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon retrieved successfully", coupon)
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	limit, offset := pagination(c)
	coupons, err := h.useCase.ListCoupons(c.Request.Context(), middleware.UserRole(c), limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupons retrieved successfully", coupons)
}

func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	coupon := req.toDomain()
	coupon.Code = c.Param("code")

	updated, err := h.useCase.UpdateCoupon(c.Request.Context(), middleware.UserRole(c), coupon)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon updated successfully", updated)
}

func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.useCase.DeleteCoupon(c.Request.Context(), middleware.UserRole(c), c.Param("code")); err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon deleted successfully", nil)
}

func (h *CouponHandler) PreviewCoupon(c *gin.Context) {
	var req PreviewCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	discounted, err := h.useCase.PreviewCoupon(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon applies", gin.H{
		"subtotal":   req.Subtotal,
		"discounted": discounted,
	})
}
