package controllers

import (
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
)

// ProductController handles catalog browsing and back-office product
// management.
type ProductController struct {
	service *services.ProductService
	reviews *services.ReviewService
}

func NewProductController(service *services.ProductService, reviews *services.ReviewService) *ProductController {
	return &ProductController{service: service, reviews: reviews}
}

func (p *ProductController) query(c *ctx.Context) services.ProductQuery {
	q := services.ProductQuery{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", defaultPageSize),
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}
	if v, ok := c.QueryFloat("minPrice"); ok {
		q.MinPrice = &v
	}
	if v, ok := c.QueryFloat("maxPrice"); ok {
		q.MaxPrice = &v
	}
	return q
}

// List serves the storefront listing.
func (p *ProductController) List(c *ctx.Context) {
	result, err := p.service.List(c.Context(), p.query(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListAdmin serves the back-office listing, inactive products included.
func (p *ProductController) ListAdmin(c *ctx.Context) {
	result, err := p.service.ListAdmin(c.Context(), p.query(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Featured serves the home-page block.
func (p *ProductController) Featured(c *ctx.Context) {
	products, err := p.service.Featured(c.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetBySlug serves the storefront detail page.
func (p *ProductController) GetBySlug(c *ctx.Context) {
	product, err := p.service.GetBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Get serves the back-office detail by ID.
func (p *ProductController) Get(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := p.service.Get(c.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Reviews serves the approved reviews of a product.
func (p *ProductController) Reviews(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	reviews, err := p.reviews.ListByProduct(c.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (p *ProductController) Create(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}

	product, err := p.service.Create(c.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (p *ProductController) Update(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.ProductUpdateInput
	if !c.BindJSON(&in) {
		return
	}

	product, err := p.service.Update(c.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (p *ProductController) Delete(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := p.service.Delete(c.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("Xóa sản phẩm thành công")
}
