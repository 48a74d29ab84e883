package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
	"github.com/lekhanhduy0411/tiemlen/pkg/middleware"
)

// OrderController handles checkout and the fulfillment lifecycle.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Place turns the caller's cart into an order.
func (o *OrderController) Place(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in services.PlaceOrderInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := o.service.Place(c.Context(), userID, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// MyOrders lists the caller's own orders.
func (o *OrderController) MyOrders(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", defaultPageSize)

	result, err := o.service.MyOrders(c.Context(), userID, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one order, owner or staff only.
func (o *OrderController) Get(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	role, _ := middleware.RoleFromCtx(c.Context())
	if role == "" {
		role = models.RoleCustomer
	}

	order, err := o.service.Get(c.Context(), id, userID, role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Cancel cancels the caller's own order.
func (o *OrderController) Cancel(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := o.service.Cancel(c.Context(), id, userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// List serves the back-office order table.
func (o *OrderController) List(c *ctx.Context) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", defaultPageSize)
	status := c.Query("status")

	result, err := o.service.List(c.Context(), status, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStatus moves an order along its lifecycle.
func (o *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.UpdateOrderStatusInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := o.service.UpdateStatus(c.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
