package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
)

// In-memory fakes for the order store interfaces.

type fakeProducts struct {
	byID map[primitive.ObjectID]*models.Product
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	if p, ok := f.byID[id]; ok {
		return *p, nil
	}
	return models.Product{}, repositories.ErrNotFound
}

func (f *fakeProducts) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) error {
	p, ok := f.byID[id]
	if !ok || p.Stock < qty {
		return repositories.ErrNotFound
	}
	p.Stock -= qty
	p.Sold += qty
	return nil
}

func (f *fakeProducts) ReleaseStock(_ context.Context, id primitive.ObjectID, qty int) error {
	p, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Stock += qty
	p.Sold -= qty
	return nil
}

func (f *fakeProducts) SetRating(_ context.Context, id primitive.ObjectID, rating float64, numReviews int) error {
	p, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Rating = rating
	p.NumReviews = numReviews
	return nil
}

type fakeCarts struct {
	cart    models.Cart
	cleared bool
}

func (f *fakeCarts) FindByUser(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	if f.cart.User != userID {
		return models.Cart{}, repositories.ErrNotFound
	}
	return f.cart, nil
}

func (f *fakeCarts) Clear(context.Context, primitive.ObjectID) error {
	f.cleared = true
	return nil
}

type fakeOrders struct {
	byID       map[primitive.ObjectID]*models.Order
	failCreate bool
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	if f.failCreate {
		return errors.New("write concern error")
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	if f.byID == nil {
		f.byID = map[primitive.ObjectID]*models.Order{}
	}
	cp := *order
	f.byID[order.ID] = &cp
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	if o, ok := f.byID[id]; ok {
		return *o, nil
	}
	return models.Order{}, repositories.ErrNotFound
}

func (f *fakeOrders) FindByUser(_ context.Context, userID primitive.ObjectID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range f.byID {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) List(_ context.Context, status string, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range f.byID {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status string, extra bson.M) (models.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return models.Order{}, repositories.ErrNotFound
	}
	o.Status = status
	if paid, ok := extra["isPaid"].(bool); ok {
		o.IsPaid = paid
	}
	if at, ok := extra["deliveredAt"].(time.Time); ok {
		o.DeliveredAt = &at
	}
	if at, ok := extra["paidAt"].(time.Time); ok {
		o.PaidAt = &at
	}
	return *o, nil
}

type fakePromos struct {
	byCode map[string]*models.Promotion
}

func (f *fakePromos) FindByCode(_ context.Context, code string) (models.Promotion, error) {
	if p, ok := f.byCode[code]; ok {
		return *p, nil
	}
	return models.Promotion{}, repositories.ErrNotFound
}

func (f *fakePromos) IncrementUsage(_ context.Context, code string) error {
	p, ok := f.byCode[code]
	if !ok || (p.UsageLimit > 0 && p.UsedCount >= p.UsageLimit) {
		return repositories.ErrNotFound
	}
	p.UsedCount++
	return nil
}

func (f *fakePromos) DecrementUsage(_ context.Context, code string) error {
	if p, ok := f.byCode[code]; ok && p.UsedCount > 0 {
		p.UsedCount--
	}
	return nil
}

type fakeUsers struct{}

func (fakeUsers) RefsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	refs := make(map[primitive.ObjectID]models.UserRef, len(ids))
	for _, id := range ids {
		refs[id] = models.UserRef{ID: id, FullName: "Nguyễn Văn An"}
	}
	return refs, nil
}

type orderFixture struct {
	svc      *OrderService
	userID   primitive.ObjectID
	products *fakeProducts
	carts    *fakeCarts
	orders   *fakeOrders
	promos   *fakePromos
	yarn     models.Product
	candle   models.Product
}

func newOrderFixture() *orderFixture {
	yarn := models.Product{
		ID: primitive.NewObjectID(), Name: "Khăn len móc tay",
		Price: 150000, Stock: 10, IsActive: true,
		Images: []string{"/images/khan-len.jpg"},
	}
	candle := models.Product{
		ID: primitive.NewObjectID(), Name: "Nến thơm lavender",
		Price: 89000, Stock: 2, IsActive: true,
	}
	userID := primitive.NewObjectID()

	f := &orderFixture{
		userID: userID,
		products: &fakeProducts{byID: map[primitive.ObjectID]*models.Product{
			yarn.ID: &yarn, candle.ID: &candle,
		}},
		carts: &fakeCarts{cart: models.Cart{
			User: userID,
			Items: []models.CartItem{
				{Product: yarn.ID, Quantity: 2, Price: 150000},
				{Product: candle.ID, Quantity: 1, Price: 89000},
			},
		}},
		orders: &fakeOrders{byID: map[primitive.ObjectID]*models.Order{}},
		promos: &fakePromos{byCode: map[string]*models.Promotion{}},
		yarn:   yarn,
		candle: candle,
	}
	f.svc = &OrderService{
		orders:     f.orders,
		carts:      f.carts,
		products:   f.products,
		promotions: f.promos,
		users:      fakeUsers{},
	}
	return f
}

func placeInput() PlaceOrderInput {
	return PlaceOrderInput{
		ShippingAddress: "123 Lê Lợi, Quận 1, TP.HCM",
		Phone:           "0901234567",
		PaymentMethod:   models.PaymentCOD,
	}
}

func TestPlaceOrder(t *testing.T) {
	f := newOrderFixture()

	order, err := f.svc.Place(context.Background(), f.userID, placeInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 389000.0, order.TotalAmount)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Khăn len móc tay", order.Items[0].Name)
	assert.Equal(t, "/images/khan-len.jpg", order.Items[0].Image)

	// Stock moved to sold, cart gone.
	assert.Equal(t, 8, f.products.byID[f.yarn.ID].Stock)
	assert.Equal(t, 2, f.products.byID[f.yarn.ID].Sold)
	assert.Equal(t, 1, f.products.byID[f.candle.ID].Stock)
	assert.True(t, f.carts.cleared)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newOrderFixture()
	f.carts.cart.Items = nil

	_, err := f.svc.Place(context.Background(), f.userID, placeInput())
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 400, serr.Status)
	assert.Equal(t, "Giỏ hàng trống", serr.Message)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	f := newOrderFixture()
	// Second line wants more than the candle has in stock.
	f.carts.cart.Items[1].Quantity = 5

	_, err := f.svc.Place(context.Background(), f.userID, placeInput())
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 400, serr.Status)
	assert.Contains(t, serr.Message, "Nến thơm lavender")

	// The yarn reservation from the first line must be released again.
	assert.Equal(t, 10, f.products.byID[f.yarn.ID].Stock)
	assert.Equal(t, 0, f.products.byID[f.yarn.ID].Sold)
	assert.Equal(t, 2, f.products.byID[f.candle.ID].Stock)
	assert.False(t, f.carts.cleared)
	assert.Empty(t, f.orders.byID)
}

func TestPlaceOrderTwoBuyersOneStock(t *testing.T) {
	// Stock 5, two orders of 3 each: exactly one succeeds.
	f := newOrderFixture()
	f.products.byID[f.yarn.ID].Stock = 5
	f.carts.cart.Items = []models.CartItem{{Product: f.yarn.ID, Quantity: 3, Price: 150000}}

	_, err := f.svc.Place(context.Background(), f.userID, placeInput())
	require.NoError(t, err)

	// The second buyer checks out the same line against what is left.
	f.carts.cleared = false
	_, err = f.svc.Place(context.Background(), f.userID, placeInput())
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Message, "không đủ hàng")
	assert.Equal(t, 2, f.products.byID[f.yarn.ID].Stock)
	assert.Equal(t, 3, f.products.byID[f.yarn.ID].Sold)
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	f := newOrderFixture()
	f.products.byID[f.candle.ID].IsActive = false

	_, err := f.svc.Place(context.Background(), f.userID, placeInput())
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Sản phẩm trong giỏ hàng không còn bán", serr.Message)
	assert.Equal(t, 10, f.products.byID[f.yarn.ID].Stock)
}

func TestPlaceOrderWithPromotion(t *testing.T) {
	f := newOrderFixture()
	now := time.Now()
	f.promos.byCode["WELCOME10"] = &models.Promotion{
		Code: "WELCOME10", Type: models.PromoPercentage, Value: 10,
		MinOrderAmount: 200000, MaxDiscount: 100000,
		StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0),
		UsageLimit: 100, IsActive: true,
	}

	in := placeInput()
	in.PromotionCode = "WELCOME10"
	order, err := f.svc.Place(context.Background(), f.userID, in)
	require.NoError(t, err)

	// 10% of 389,000₫
	assert.Equal(t, 38900.0, order.DiscountAmount)
	assert.Equal(t, 350100.0, order.TotalAmount)
	assert.Equal(t, "WELCOME10", order.PromotionCode)
	assert.Equal(t, 1, f.promos.byCode["WELCOME10"].UsedCount)
}

func TestPlaceOrderPromotionExhaustedRollsBack(t *testing.T) {
	f := newOrderFixture()
	now := time.Now()
	f.promos.byCode["HANDMADE50K"] = &models.Promotion{
		Code: "HANDMADE50K", Type: models.PromoFixed, Value: 50000,
		StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0),
		UsageLimit: 5, UsedCount: 5, IsActive: true,
	}

	in := placeInput()
	in.PromotionCode = "HANDMADE50K"
	_, err := f.svc.Place(context.Background(), f.userID, in)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Mã giảm giá đã hết lượt sử dụng", serr.Message)

	assert.Equal(t, 10, f.products.byID[f.yarn.ID].Stock)
	assert.Equal(t, 2, f.products.byID[f.candle.ID].Stock)
	assert.Equal(t, 5, f.promos.byCode["HANDMADE50K"].UsedCount)
}

func TestPlaceOrderBelowPromotionMinimum(t *testing.T) {
	f := newOrderFixture()
	now := time.Now()
	f.promos.byCode["BIGSPENDER"] = &models.Promotion{
		Code: "BIGSPENDER", Type: models.PromoFixed, Value: 100000,
		MinOrderAmount: 1000000,
		StartDate:      now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0),
		IsActive: true,
	}

	in := placeInput()
	in.PromotionCode = "BIGSPENDER"
	_, err := f.svc.Place(context.Background(), f.userID, in)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Đơn hàng chưa đạt giá trị tối thiểu", serr.Message)
	assert.Equal(t, 10, f.products.byID[f.yarn.ID].Stock)
}

func TestPlaceOrderCreateFailureCompensates(t *testing.T) {
	f := newOrderFixture()
	f.orders.failCreate = true
	now := time.Now()
	f.promos.byCode["WELCOME10"] = &models.Promotion{
		Code: "WELCOME10", Type: models.PromoPercentage, Value: 10,
		StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0),
		UsageLimit: 100, IsActive: true,
	}

	in := placeInput()
	in.PromotionCode = "WELCOME10"
	_, err := f.svc.Place(context.Background(), f.userID, in)
	require.Error(t, err)

	// Stock and the promo usage slot both come back.
	assert.Equal(t, 10, f.products.byID[f.yarn.ID].Stock)
	assert.Equal(t, 2, f.products.byID[f.candle.ID].Stock)
	assert.Equal(t, 0, f.promos.byCode["WELCOME10"].UsedCount)
}

func TestCancelRestocksOnce(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Place(context.Background(), f.userID, placeInput())
	require.NoError(t, err)
	assert.Equal(t, 8, f.products.byID[f.yarn.ID].Stock)

	cancelled, err := f.svc.Cancel(context.Background(), order.ID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, f.products.byID[f.yarn.ID].Stock)
	assert.Equal(t, 0, f.products.byID[f.yarn.ID].Sold)

	// Cancelling again must not restock a second time.
	_, err = f.svc.Cancel(context.Background(), order.ID, f.userID)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Không thể hủy đơn hàng này", serr.Message)
	assert.Equal(t, 10, f.products.byID[f.yarn.ID].Stock)
}

func TestCancelSomeoneElsesOrder(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Place(context.Background(), f.userID, placeInput())
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), order.ID, primitive.NewObjectID())
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 403, serr.Status)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Place(context.Background(), f.userID, placeInput())
	require.NoError(t, err)

	// Skipping straight to shipping is not allowed.
	_, err = f.svc.UpdateStatus(context.Background(), order.ID,
		UpdateOrderStatusInput{Status: models.StatusShipping})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 400, serr.Status)

	for _, status := range []string{
		models.StatusConfirmed, models.StatusProcessing,
		models.StatusShipping, models.StatusDelivered,
	} {
		_, err = f.svc.UpdateStatus(context.Background(), order.ID,
			UpdateOrderStatusInput{Status: status})
		require.NoError(t, err, status)
	}

	delivered, err := f.svc.Get(context.Background(), order.ID, f.userID, models.RoleCustomer)
	require.NoError(t, err)
	assert.True(t, delivered.IsPaid)
	assert.NotNil(t, delivered.DeliveredAt)
	assert.NotNil(t, delivered.PaidAt)

	// Delivered is terminal, even for cancellation.
	_, err = f.svc.UpdateStatus(context.Background(), order.ID,
		UpdateOrderStatusInput{Status: models.StatusCancelled})
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Không thể hủy đơn hàng này", serr.Message)
	assert.Equal(t, 8, f.products.byID[f.yarn.ID].Stock, "delivered orders never restock")
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Place(context.Background(), f.userID, placeInput())
	require.NoError(t, err)

	stranger := primitive.NewObjectID()
	_, err = f.svc.Get(context.Background(), order.ID, stranger, models.RoleCustomer)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 403, serr.Status)

	// Staff can see any order.
	got, err := f.svc.Get(context.Background(), order.ID, stranger, models.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture()
	_, err := f.svc.List(context.Background(), "teleported", 1, 10)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Trạng thái không hợp lệ", serr.Message)
}
