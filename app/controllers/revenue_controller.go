package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// RevenueController serves the back-office dashboard.
type RevenueController struct {
	service *services.RevenueService
}

func NewRevenueController(service *services.RevenueService) *RevenueController {
	return &RevenueController{service: service}
}

func (rc *RevenueController) Stats(c *ctx.Context) {
	stats, err := rc.service.Stats(c.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
