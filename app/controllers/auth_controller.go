package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// AuthController handles registration, login and the /profile surface.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (a *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	result, err := a.service.Register(c.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (a *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	result, err := a.service.Login(c.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *AuthController) Profile(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := a.service.Profile(c.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *AuthController) UpdateProfile(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in services.UpdateProfileInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := a.service.UpdateProfile(c.Context(), userID, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *AuthController) ChangePassword(c *ctx.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var in services.ChangePasswordInput
	if !c.BindJSON(&in) {
		return
	}

	if err := a.service.ChangePassword(c.Context(), userID, in); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("Đổi mật khẩu thành công")
}
