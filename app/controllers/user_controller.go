package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// UserController handles admin account management.
type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func (u *UserController) List(c *ctx.Context) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", defaultPageSize)

	result, err := u.service.List(c.Context(), page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (u *UserController) Get(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := u.service.Get(c.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (u *UserController) Update(c *ctx.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.UpdateUserInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := u.service.Update(c.Context(), actorID, id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (u *UserController) Delete(c *ctx.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := u.service.Delete(c.Context(), actorID, id); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("Xóa người dùng thành công")
}
