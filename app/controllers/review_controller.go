package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// ReviewController handles review creation and moderation.
type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController(service *services.ReviewService) *ReviewController {
	return &ReviewController{service: service}
}

func (rc *ReviewController) Create(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in services.CreateReviewInput
	if !c.BindJSON(&in) {
		return
	}

	review, err := rc.service.Create(c.Context(), userID, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// List serves the moderation table.
func (rc *ReviewController) List(c *ctx.Context) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", defaultPageSize)

	result, err := rc.service.List(c.Context(), page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rc *ReviewController) Delete(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := rc.service.Delete(c.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("Xóa đánh giá thành công")
}
