package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
)

type ReviewHandler struct {
	useCase domain.ReviewUseCase
	log     *logrus.Logger
}

func NewReviewHandler(uc domain.ReviewUseCase, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{useCase: uc, log: logger}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	review, err := h.useCase.CreateReview(c.Request.Context(), middleware.UserID(c), productID, req.Rating, req.Comment)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Review created successfully", review)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	reviews, err := h.useCase.ListReviewsByProduct(c.Request.Context(), productID, limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	review, err := h.useCase.UpdateReview(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id, req.Rating, req.Comment)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Review updated successfully", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.DeleteReview(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), id); err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Review deleted successfully", nil)
}
