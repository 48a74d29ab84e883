package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// CartController handles the authenticated user's cart.
type CartController struct {
	service *services.CartService
}

func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

func (cc *CartController) Get(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cart, err := cc.service.Get(c.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CartController) Add(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in services.AddToCartInput
	if !c.BindJSON(&in) {
		return
	}

	cart, err := cc.service.Add(c.Context(), userID, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CartController) UpdateItem(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in services.UpdateCartItemInput
	if !c.BindJSON(&in) {
		return
	}

	cart, err := cc.service.UpdateItem(c.Context(), userID, c.Param("productId"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CartController) Remove(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cart, err := cc.service.Remove(c.Context(), userID, c.Param("productId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CartController) Clear(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := cc.service.Clear(c.Context(), userID); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("Đã xóa giỏ hàng")
}
