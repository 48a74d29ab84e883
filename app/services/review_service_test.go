package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
)

type fakeReviews struct {
	byID map[primitive.ObjectID]*models.Review
}

func (f *fakeReviews) Create(_ context.Context, review *models.Review) error {
	for _, r := range f.byID {
		if r.User == review.User && r.Product == review.Product && r.Order == review.Order {
			return repositories.ErrDuplicate
		}
	}
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	cp := *review
	f.byID[review.ID] = &cp
	return nil
}

func (f *fakeReviews) FindByID(_ context.Context, id primitive.ObjectID) (models.Review, error) {
	if r, ok := f.byID[id]; ok {
		return *r, nil
	}
	return models.Review{}, repositories.ErrNotFound
}

func (f *fakeReviews) ApprovedByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.byID {
		if r.Product == productID && r.IsApproved {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviews) List(_ context.Context, _, _ int) ([]models.Review, int64, error) {
	var out []models.Review
	for _, r := range f.byID {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviews) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type reviewFixture struct {
	svc      *ReviewService
	reviews  *fakeReviews
	products *fakeProducts
	userID   primitive.ObjectID
	product  models.Product
	order    models.Order
}

func newReviewFixture() *reviewFixture {
	product := models.Product{
		ID: primitive.NewObjectID(), Name: "Túi xách thêu tay",
		Price: 250000, Stock: 5, IsActive: true,
	}
	userID := primitive.NewObjectID()
	order := models.Order{
		ID:     primitive.NewObjectID(),
		User:   userID,
		Status: models.StatusDelivered,
		Items: []models.OrderItem{
			{Product: product.ID, Name: product.Name, Price: product.Price, Quantity: 1},
		},
	}

	f := &reviewFixture{
		reviews: &fakeReviews{byID: map[primitive.ObjectID]*models.Review{}},
		products: &fakeProducts{byID: map[primitive.ObjectID]*models.Product{
			product.ID: &product,
		}},
		userID:  userID,
		product: product,
		order:   order,
	}
	f.svc = &ReviewService{
		reviews:  f.reviews,
		orders:   &fakeOrders{byID: map[primitive.ObjectID]*models.Order{order.ID: &order}},
		products: f.products,
		users:    fakeUsers{},
	}
	return f
}

func (f *reviewFixture) input(rating int) CreateReviewInput {
	return CreateReviewInput{
		ProductID: f.product.ID.Hex(),
		OrderID:   f.order.ID.Hex(),
		Rating:    rating,
		Comment:   "Sản phẩm rất đẹp, giao hàng nhanh",
	}
}

func TestCreateReview(t *testing.T) {
	f := newReviewFixture()

	review, err := f.svc.Create(context.Background(), f.userID, f.input(5))
	require.NoError(t, err)
	assert.True(t, review.IsApproved)
	assert.Equal(t, 5, review.Rating)

	// The product's denormalized rating follows the write.
	assert.Equal(t, 5.0, f.products.byID[f.product.ID].Rating)
	assert.Equal(t, 1, f.products.byID[f.product.ID].NumReviews)
}

func TestCreateReviewRequiresDelivery(t *testing.T) {
	f := newReviewFixture()
	f.svc.orders.(*fakeOrders).byID[f.order.ID].Status = models.StatusShipping

	_, err := f.svc.Create(context.Background(), f.userID, f.input(4))
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Bạn chỉ có thể đánh giá sản phẩm đã nhận hàng", serr.Message)
}

func TestCreateReviewRequiresOwnership(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.Create(context.Background(), primitive.NewObjectID(), f.input(4))
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 403, serr.Status)
}

func TestCreateReviewProductNotInOrder(t *testing.T) {
	f := newReviewFixture()
	other := models.Product{ID: primitive.NewObjectID(), Name: "Vòng tay đá", IsActive: true}
	f.products.byID[other.ID] = &other

	in := f.input(4)
	in.ProductID = other.ID.Hex()
	_, err := f.svc.Create(context.Background(), f.userID, in)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Sản phẩm không có trong đơn hàng", serr.Message)
}

func TestCreateReviewDuplicate(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.Create(context.Background(), f.userID, f.input(5))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.userID, f.input(3))
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 409, serr.Status)
	assert.Equal(t, "Bạn đã đánh giá sản phẩm này rồi", serr.Message)
}

func TestDeleteReviewRecomputesRating(t *testing.T) {
	f := newReviewFixture()

	review, err := f.svc.Create(context.Background(), f.userID, f.input(5))
	require.NoError(t, err)
	assert.Equal(t, 5.0, f.products.byID[f.product.ID].Rating)

	require.NoError(t, f.svc.Delete(context.Background(), review.ID))
	assert.Equal(t, 0.0, f.products.byID[f.product.ID].Rating)
	assert.Equal(t, 0, f.products.byID[f.product.ID].NumReviews)

	err = f.svc.Delete(context.Background(), review.ID)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 404, serr.Status)
}
