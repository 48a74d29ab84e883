package services

import (
	"context"
	"errors"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	cacheKeyCategories = "categories:active"
	categoriesTTL      = 10 * time.Minute
)

// CategoryInput is the create payload.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"nullable,max=500"`
	Image       string `json:"image" validate:"nullable,max=500"`
	IsActive    *bool  `json:"isActive" validate:"nullable"`
}

// CategoryUpdateInput is the partial-update payload; absent fields keep
// their current values.
type CategoryUpdateInput struct {
	Name        string `json:"name" validate:"nullable,min=2,max=100"`
	Description string `json:"description" validate:"nullable,max=500"`
	Image       string `json:"image" validate:"nullable,max=500"`
	IsActive    *bool  `json:"isActive" validate:"nullable"`
}

// CategoryService implements catalog category management with a cached
// storefront listing.
type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService(categories *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// ListActive serves the storefront category list through the cache.
func (s *CategoryService) ListActive(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if cache.Get(cacheKeyCategories, &cats) {
		return cats, nil
	}

	cats, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	cache.Set(cacheKeyCategories, cats, categoriesTTL)
	return cats, nil
}

func (s *CategoryService) ListAll(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Category{}, notFound("Không tìm thấy danh mục")
	}
	return cat, err
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (models.Category, error) {
	cat := models.Category{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		IsActive:    true,
	}
	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}

	if err := s.categories.Create(ctx, &cat); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Category{}, badRequest("Danh mục đã tồn tại")
		}
		return models.Category{}, err
	}
	cache.Del(cacheKeyCategories)
	return cat, nil
}

func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, in CategoryUpdateInput) (models.Category, error) {
	fields := bson.M{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.Image != "" {
		fields["image"] = in.Image
	}
	if in.IsActive != nil {
		fields["isActive"] = *in.IsActive
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	cat, err := s.categories.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Category{}, notFound("Không tìm thấy danh mục")
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Category{}, badRequest("Danh mục đã tồn tại")
		}
		return models.Category{}, err
	}
	cache.Del(cacheKeyCategories)
	return cat, nil
}

func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Không tìm thấy danh mục")
		}
		return err
	}
	cache.Del(cacheKeyCategories)
	return nil
}
