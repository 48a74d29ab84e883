package services

import (
	"context"
	"errors"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Review, error)
	ApprovedByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	List(ctx context.Context, page, limit int) ([]models.Review, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type reviewOrderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
}

type reviewProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64, numReviews int) error
}

// CreateReviewInput rates a product bought in a specific order.
type CreateReviewInput struct {
	ProductID string `json:"productId" validate:"required"`
	OrderID   string `json:"orderId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"nullable,max=2000"`
}

// ReviewPage is one page of the moderation listing.
type ReviewPage struct {
	Reviews    []models.ReviewView `json:"reviews"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Total      int64               `json:"total"`
}

// ReviewService implements product reviews. Only buyers of a delivered
// order may review, once per (user, product, order); the product rating is
// recomputed after every write.
type ReviewService struct {
	reviews  reviewStore
	orders   reviewOrderStore
	products reviewProductStore
	users    orderUserStore
}

func NewReviewService(
	reviews *repositories.ReviewRepository,
	orders *repositories.OrderRepository,
	products *repositories.ProductRepository,
	users *repositories.UserRepository,
) *ReviewService {
	return &ReviewService{reviews: reviews, orders: orders, products: products, users: users}
}

// Create validates purchase proof and stores the review.
func (s *ReviewService) Create(ctx context.Context, userID primitive.ObjectID, in CreateReviewInput) (models.Review, error) {
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return models.Review{}, badRequest("Sản phẩm không hợp lệ")
	}
	orderID, err := primitive.ObjectIDFromHex(in.OrderID)
	if err != nil {
		return models.Review{}, badRequest("Đơn hàng không hợp lệ")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Review{}, notFound("Không tìm thấy sản phẩm")
		}
		return models.Review{}, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Review{}, notFound("Không tìm thấy đơn hàng")
		}
		return models.Review{}, err
	}
	if order.User != userID {
		return models.Review{}, forbidden("Bạn không có quyền truy cập")
	}
	if order.Status != models.StatusDelivered {
		return models.Review{}, badRequest("Bạn chỉ có thể đánh giá sản phẩm đã nhận hàng")
	}

	bought := false
	for _, it := range order.Items {
		if it.Product == productID {
			bought = true
			break
		}
	}
	if !bought {
		return models.Review{}, badRequest("Sản phẩm không có trong đơn hàng")
	}

	review := models.Review{
		User:       userID,
		Product:    productID,
		Order:      orderID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		IsApproved: true,
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Review{}, conflict("Bạn đã đánh giá sản phẩm này rồi")
		}
		return models.Review{}, err
	}

	s.recomputeRating(ctx, productID)
	return review, nil
}

// ListByProduct returns the approved reviews shown on a product page.
func (s *ReviewService) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.ReviewView, error) {
	reviews, err := s.reviews.ApprovedByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.resolveAuthors(ctx, reviews)
}

// List returns all reviews for moderation.
func (s *ReviewService) List(ctx context.Context, page, limit int) (ReviewPage, error) {
	reviews, total, err := s.reviews.List(ctx, page, limit)
	if err != nil {
		return ReviewPage{}, err
	}
	views, err := s.resolveAuthors(ctx, reviews)
	if err != nil {
		return ReviewPage{}, err
	}
	return ReviewPage{
		Reviews:    views,
		Page:       page,
		TotalPages: totalPages(total, limit),
		Total:      total,
	}, nil
}

// Delete removes a review and recomputes the product rating.
func (s *ReviewService) Delete(ctx context.Context, id primitive.ObjectID) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Không tìm thấy đánh giá")
		}
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Không tìm thấy đánh giá")
		}
		return err
	}

	s.recomputeRating(ctx, review.Product)
	return nil
}

// recomputeRating refreshes the product's denormalized rating aggregate.
// Failures are logged, not surfaced; the review write already succeeded.
func (s *ReviewService) recomputeRating(ctx context.Context, productID primitive.ObjectID) {
	reviews, err := s.reviews.ApprovedByProduct(ctx, productID)
	if err != nil {
		logger.Error("reviews: rating recompute load failed", "product", productID.Hex(), "error", err)
		return
	}
	avg, count := models.AverageRating(reviews)
	if err := s.products.SetRating(ctx, productID, avg, count); err != nil {
		logger.Error("reviews: rating write failed", "product", productID.Hex(), "error", err)
	}
}

func (s *ReviewService) resolveAuthors(ctx context.Context, reviews []models.Review) ([]models.ReviewView, error) {
	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.User)
	}
	refs, err := s.users.RefsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, models.ReviewView{Review: r, User: refs[r.User]})
	}
	return views, nil
}
