// Package controllers wires HTTP requests to the service layer. Handlers
// stay thin: bind, call the service, translate the result.
package controllers

import (
	"errors"
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
	"github.com/lekhanhduy0411/tiemlen/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultPageSize = 10

// respondErr maps a service error to its HTTP response. Anything that is
// not a *services.Error is logged and reported as a 500.
func respondErr(c *ctx.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		c.Error(se.Status, se.Message)
		return
	}
	logger.Error("request failed", "path", c.R.URL.Path, "error", err)
	c.Error(http.StatusInternalServerError, "Lỗi máy chủ")
}

// currentUser extracts the authenticated user's ObjectID. Responds 401 and
// returns false when the context carries no valid identity.
func currentUser(c *ctx.Context) (primitive.ObjectID, bool) {
	hex, ok := middleware.UserIDFromCtx(c.Context())
	if !ok {
		c.Error(http.StatusUnauthorized, "Vui lòng đăng nhập")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		c.Error(http.StatusUnauthorized, "Token không hợp lệ")
		return primitive.NilObjectID, false
	}
	return id, true
}

// paramID parses the {id} path parameter. Responds 400 and returns false
// on a malformed ID.
func paramID(c *ctx.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.Error(http.StatusBadRequest, "ID không hợp lệ")
		return primitive.NilObjectID, false
	}
	return id, true
}
