package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// CategoryController handles the category catalog, storefront and back
// office.
type CategoryController struct {
	service *services.CategoryService
}

func NewCategoryController(service *services.CategoryService) *CategoryController {
	return &CategoryController{service: service}
}

// List serves the storefront: active categories only.
func (cc *CategoryController) List(c *ctx.Context) {
	cats, err := cc.service.ListActive(c.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// ListAll serves the back office: every category.
func (cc *CategoryController) ListAll(c *ctx.Context) {
	cats, err := cc.service.ListAll(c.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (cc *CategoryController) Get(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	cat, err := cc.service.Get(c.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (cc *CategoryController) Create(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}

	cat, err := cc.service.Create(c.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (cc *CategoryController) Update(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.CategoryUpdateInput
	if !c.BindJSON(&in) {
		return
	}

	cat, err := cc.service.Update(c.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (cc *CategoryController) Delete(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := cc.service.Delete(c.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("Xóa danh mục thành công")
}
