package services

import (
	"context"
	"errors"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/cache"
	"github.com/lekhanhduy0411/tiemlen/pkg/collection"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	cacheKeyFeatured = "products:featured"
	featuredTTL      = 5 * time.Minute
	featuredLimit    = 8
)

// ProductQuery is the parsed storefront listing query.
type ProductQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string // category ObjectID hex, "" for all
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

// ProductInput is the create payload.
type ProductInput struct {
	Name          string   `json:"name" validate:"required,min=2,max=200"`
	Description   string   `json:"description" validate:"nullable,max=5000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice float64  `json:"originalPrice" validate:"nullable,gte=0"`
	Category      string   `json:"category" validate:"required"`
	Images        []string `json:"images" validate:"nullable"`
	Stock         int      `json:"stock" validate:"nullable,gte=0"`
	IsActive      *bool    `json:"isActive" validate:"nullable"`
	Featured      *bool    `json:"featured" validate:"nullable"`
	Tags          []string `json:"tags" validate:"nullable"`
}

// ProductUpdateInput is the partial-update payload.
type ProductUpdateInput struct {
	Name          string   `json:"name" validate:"nullable,min=2,max=200"`
	Description   *string  `json:"description" validate:"nullable,max=5000"`
	Price         *float64 `json:"price" validate:"nullable,gt=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"nullable,gte=0"`
	Category      string   `json:"category" validate:"nullable"`
	Images        []string `json:"images" validate:"nullable"`
	Stock         *int     `json:"stock" validate:"nullable,gte=0"`
	IsActive      *bool    `json:"isActive" validate:"nullable"`
	Featured      *bool    `json:"featured" validate:"nullable"`
	Tags          []string `json:"tags" validate:"nullable"`
}

// ProductPage is one page of the storefront or admin product listing.
type ProductPage struct {
	Products   []models.ProductView `json:"products"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
	Total      int64                `json:"total"`
}

// ProductService implements catalog browsing and back-office product
// management.
type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewProductService(products *repositories.ProductRepository, categories *repositories.CategoryRepository) *ProductService {
	return &ProductService{products: products, categories: categories}
}

// List serves the storefront listing: active products only.
func (s *ProductService) List(ctx context.Context, q ProductQuery) (ProductPage, error) {
	return s.page(ctx, q, true)
}

// ListAdmin serves the back office: every product, active or not.
func (s *ProductService) ListAdmin(ctx context.Context, q ProductQuery) (ProductPage, error) {
	return s.page(ctx, q, false)
}

func (s *ProductService) page(ctx context.Context, q ProductQuery, activeOnly bool) (ProductPage, error) {
	filter := repositories.ProductFilter{
		Page:       q.Page,
		Limit:      q.Limit,
		Search:     q.Search,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Sort:       q.Sort,
		ActiveOnly: activeOnly,
	}
	if q.Category != "" {
		id, err := primitive.ObjectIDFromHex(q.Category)
		if err != nil {
			return ProductPage{}, badRequest("Danh mục không hợp lệ")
		}
		filter.Category = &id
	}

	products, total, err := s.products.Search(ctx, filter)
	if err != nil {
		return ProductPage{}, err
	}

	views, err := s.resolveCategories(ctx, products)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		Products:   views,
		Page:       q.Page,
		TotalPages: totalPages(total, q.Limit),
		Total:      total,
	}, nil
}

// GetBySlug returns one active product for the storefront detail page.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (models.ProductView, error) {
	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil || !p.IsActive {
		if errors.Is(err, repositories.ErrNotFound) || err == nil {
			return models.ProductView{}, notFound("Không tìm thấy sản phẩm")
		}
		return models.ProductView{}, err
	}
	return s.resolveOne(ctx, p)
}

// Get returns one product by ID regardless of active state, for the back
// office.
func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (models.ProductView, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ProductView{}, notFound("Không tìm thấy sản phẩm")
		}
		return models.ProductView{}, err
	}
	return s.resolveOne(ctx, p)
}

// Featured serves the home-page block through the cache.
func (s *ProductService) Featured(ctx context.Context) ([]models.ProductView, error) {
	var views []models.ProductView
	if cache.Get(cacheKeyFeatured, &views) {
		return views, nil
	}

	products, err := s.products.FindFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	views, err = s.resolveCategories(ctx, products)
	if err != nil {
		return nil, err
	}
	cache.Set(cacheKeyFeatured, views, featuredTTL)
	return views, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.ProductView, error) {
	catID, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		return models.ProductView{}, badRequest("Danh mục không hợp lệ")
	}
	if _, err := s.categories.FindByID(ctx, catID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ProductView{}, notFound("Không tìm thấy danh mục")
		}
		return models.ProductView{}, err
	}

	p := models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Category:      catID,
		Images:        in.Images,
		Stock:         in.Stock,
		IsActive:      true,
		Tags:          in.Tags,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}

	if err := s.products.Create(ctx, &p); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.ProductView{}, badRequest("Sản phẩm đã tồn tại")
		}
		return models.ProductView{}, err
	}
	cache.Del(cacheKeyFeatured)
	return s.resolveOne(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, in ProductUpdateInput) (models.ProductView, error) {
	fields := bson.M{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.OriginalPrice != nil {
		fields["originalPrice"] = *in.OriginalPrice
	}
	if in.Category != "" {
		catID, err := primitive.ObjectIDFromHex(in.Category)
		if err != nil {
			return models.ProductView{}, badRequest("Danh mục không hợp lệ")
		}
		if _, err := s.categories.FindByID(ctx, catID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return models.ProductView{}, notFound("Không tìm thấy danh mục")
			}
			return models.ProductView{}, err
		}
		fields["category"] = catID
	}
	if in.Images != nil {
		fields["images"] = in.Images
	}
	if in.Stock != nil {
		fields["stock"] = *in.Stock
	}
	if in.IsActive != nil {
		fields["isActive"] = *in.IsActive
	}
	if in.Featured != nil {
		fields["featured"] = *in.Featured
	}
	if in.Tags != nil {
		fields["tags"] = in.Tags
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	p, err := s.products.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ProductView{}, notFound("Không tìm thấy sản phẩm")
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.ProductView{}, badRequest("Sản phẩm đã tồn tại")
		}
		return models.ProductView{}, err
	}
	cache.Del(cacheKeyFeatured)
	return s.resolveOne(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Không tìm thấy sản phẩm")
		}
		return err
	}
	cache.Del(cacheKeyFeatured)
	return nil
}

func (s *ProductService) resolveOne(ctx context.Context, p models.Product) (models.ProductView, error) {
	views, err := s.resolveCategories(ctx, []models.Product{p})
	if err != nil {
		return models.ProductView{}, err
	}
	return views[0], nil
}

// resolveCategories batches the category lookups for a product slice and
// builds the populated views.
func (s *ProductService) resolveCategories(ctx context.Context, products []models.Product) ([]models.ProductView, error) {
	ids := collection.Map(products, func(p models.Product) primitive.ObjectID {
		return p.Category
	})
	refs, err := s.categories.RefsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return collection.Map(products, func(p models.Product) models.ProductView {
		return p.WithCategory(refs[p.Category])
	}), nil
}
