package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// PromotionController handles discount codes.
type PromotionController struct {
	service *services.PromotionService
}

func NewPromotionController(service *services.PromotionService) *PromotionController {
	return &PromotionController{service: service}
}

// Apply previews a code against an order amount. Usage is consumed at
// checkout, not here.
func (p *PromotionController) Apply(c *ctx.Context) {
	var in services.ApplyPromotionInput
	if !c.BindJSON(&in) {
		return
	}

	result, err := p.service.Apply(c.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListActive serves the storefront banner.
func (p *PromotionController) ListActive(c *ctx.Context) {
	promos, err := p.service.ListActive(c.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

// List serves the back office.
func (p *PromotionController) List(c *ctx.Context) {
	promos, err := p.service.ListAll(c.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

func (p *PromotionController) Get(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	promo, err := p.service.Get(c.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}

func (p *PromotionController) Create(c *ctx.Context) {
	var in services.PromotionInput
	if !c.BindJSON(&in) {
		return
	}

	promo, err := p.service.Create(c.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (p *PromotionController) Update(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.PromotionUpdateInput
	if !c.BindJSON(&in) {
		return
	}

	promo, err := p.service.Update(c.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}

func (p *PromotionController) Delete(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := p.service.Delete(c.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("Xóa mã giảm giá thành công")
}
