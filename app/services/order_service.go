package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/event"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces let the order rules run against fakes in tests. The
// repositories satisfy them as-is.
type orderProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) error
	ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type orderCartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error)
	List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, extra bson.M) (models.Order, error)
}

type orderPromoStore interface {
	FindByCode(ctx context.Context, code string) (models.Promotion, error)
	IncrementUsage(ctx context.Context, code string) error
	DecrementUsage(ctx context.Context, code string) error
}

type orderUserStore interface {
	RefsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error)
}

// PlaceOrderInput is the checkout payload. The items come from the cart,
// never from the request.
type PlaceOrderInput struct {
	ShippingAddress string `json:"shippingAddress" validate:"required,min=5,max=500"`
	Phone           string `json:"phone" validate:"required,max=20"`
	PaymentMethod   string `json:"paymentMethod" validate:"required,in=cod,banking"`
	Notes           string `json:"notes" validate:"nullable,max=1000"`
	PromotionCode   string `json:"promotionCode" validate:"nullable,max=50"`
}

// UpdateOrderStatusInput moves an order along its lifecycle.
type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required,in=pending,confirmed,processing,shipping,delivered,cancelled"`
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Orders     []models.OrderView `json:"orders"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Total      int64              `json:"total"`
}

// OrderService implements checkout and the fulfillment lifecycle.
//
// Placement reserves stock per line with conditional updates. A line that
// cannot be reserved rolls back every earlier reservation, so a failed
// checkout never leaks stock. Promotion usage is counted the same way:
// the slot is taken atomically and returned if placement fails later.
type OrderService struct {
	orders     orderStore
	carts      orderCartStore
	products   orderProductStore
	promotions orderPromoStore
	users      orderUserStore
}

func NewOrderService(
	orders *repositories.OrderRepository,
	carts *repositories.CartRepository,
	products *repositories.ProductRepository,
	promotions *repositories.PromotionRepository,
	users *repositories.UserRepository,
) *OrderService {
	return &OrderService{
		orders:     orders,
		carts:      carts,
		products:   products,
		promotions: promotions,
		users:      users,
	}
}

// Place turns the user's cart into an order.
func (s *OrderService) Place(ctx context.Context, userID primitive.ObjectID, in PlaceOrderInput) (models.Order, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Order{}, badRequest("Giỏ hàng trống")
		}
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, badRequest("Giỏ hàng trống")
	}

	// Reserve stock line by line; roll back on the first failure.
	items := make([]models.OrderItem, 0, len(cart.Items))
	reserved := make([]models.OrderItem, 0, len(cart.Items))
	rollback := func() {
		for _, it := range reserved {
			if err := s.products.ReleaseStock(ctx, it.Product, it.Quantity); err != nil {
				logger.Error("orders: release stock failed", "product", it.Product.Hex(), "error", err)
			}
		}
	}

	subtotal := 0.0
	for _, line := range cart.Items {
		product, err := s.products.FindByID(ctx, line.Product)
		if err != nil || !product.IsActive {
			rollback()
			if errors.Is(err, repositories.ErrNotFound) || err == nil {
				return models.Order{}, badRequest("Sản phẩm trong giỏ hàng không còn bán")
			}
			return models.Order{}, err
		}

		if err := s.products.ReserveStock(ctx, product.ID, line.Quantity); err != nil {
			rollback()
			if errors.Is(err, repositories.ErrNotFound) {
				return models.Order{}, badRequest(
					fmt.Sprintf("Sản phẩm %s không đủ hàng trong kho", product.Name))
			}
			return models.Order{}, err
		}

		item := models.OrderItem{
			Product:  product.ID,
			Name:     product.Name,
			Image:    product.FirstImage(),
			Price:    product.Price,
			Quantity: line.Quantity,
		}
		items = append(items, item)
		reserved = append(reserved, item)
		subtotal += product.Price * float64(line.Quantity)
	}
	subtotal = math.Round(subtotal*100) / 100

	// Promotion: take a usage slot atomically before the order exists.
	discount := 0.0
	promoCode := ""
	if in.PromotionCode != "" {
		promo, perr := s.checkPromotion(ctx, in.PromotionCode, subtotal, time.Now())
		if perr != nil {
			rollback()
			return models.Order{}, perr
		}
		if err := s.promotions.IncrementUsage(ctx, promo.Code); err != nil {
			rollback()
			if errors.Is(err, repositories.ErrNotFound) {
				return models.Order{}, badRequest("Mã giảm giá đã hết lượt sử dụng")
			}
			return models.Order{}, err
		}
		promoCode = promo.Code
		discount = math.Min(promo.Discount(subtotal), subtotal)
		discount = math.Round(discount*100) / 100
	}

	order := models.Order{
		User:            userID,
		Items:           items,
		TotalAmount:     math.Round((subtotal-discount)*100) / 100,
		PromotionCode:   promoCode,
		DiscountAmount:  discount,
		ShippingAddress: in.ShippingAddress,
		Phone:           in.Phone,
		Notes:           in.Notes,
		Status:          models.StatusPending,
		PaymentMethod:   in.PaymentMethod,
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		rollback()
		if promoCode != "" {
			if derr := s.promotions.DecrementUsage(ctx, promoCode); derr != nil {
				logger.Error("orders: promo usage rollback failed", "code", promoCode, "error", derr)
			}
		}
		return models.Order{}, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order is placed; a stale cart is an annoyance, not a failure.
		logger.Warn("orders: cart clear failed", "user_id", userID.Hex(), "error", err)
	}

	logger.Info("orders: placed",
		"order_id", order.ID.Hex(),
		"user_id", userID.Hex(),
		"total", order.TotalAmount,
		"items", len(order.Items))
	event.Fire("order.placed", order)
	return order, nil
}

// Get returns one order. Customers see only their own; staff and admins
// see everything.
func (s *OrderService) Get(ctx context.Context, id, viewerID primitive.ObjectID, viewerRole string) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Order{}, notFound("Không tìm thấy đơn hàng")
		}
		return models.Order{}, err
	}
	if order.User != viewerID && viewerRole == models.RoleCustomer {
		return models.Order{}, forbidden("Bạn không có quyền truy cập")
	}
	return order, nil
}

// MyOrders returns the viewer's own orders newest-first.
func (s *OrderService) MyOrders(ctx context.Context, userID primitive.ObjectID, page, limit int) (OrderPage, error) {
	orders, total, err := s.orders.FindByUser(ctx, userID, page, limit)
	if err != nil {
		return OrderPage{}, err
	}
	return s.buildPage(ctx, orders, total, page, limit)
}

// List returns all orders for the back office, optionally filtered by
// status.
func (s *OrderService) List(ctx context.Context, status string, page, limit int) (OrderPage, error) {
	if status != "" && !models.ValidStatus(status) {
		return OrderPage{}, badRequest("Trạng thái không hợp lệ")
	}
	orders, total, err := s.orders.List(ctx, status, page, limit)
	if err != nil {
		return OrderPage{}, err
	}
	return s.buildPage(ctx, orders, total, page, limit)
}

// Cancel cancels the viewer's own order and restores the reserved stock.
// Terminal orders cannot be cancelled, so stock is restored at most once.
func (s *OrderService) Cancel(ctx context.Context, id, userID primitive.ObjectID) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Order{}, notFound("Không tìm thấy đơn hàng")
		}
		return models.Order{}, err
	}
	if order.User != userID {
		return models.Order{}, forbidden("Bạn không có quyền truy cập")
	}
	return s.cancel(ctx, order)
}

// UpdateStatus moves an order to the requested status, enforcing the
// lifecycle. Delivered marks the order paid; cancelled restores stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, in UpdateOrderStatusInput) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Order{}, notFound("Không tìm thấy đơn hàng")
		}
		return models.Order{}, err
	}

	if in.Status == models.StatusCancelled {
		return s.cancel(ctx, order)
	}
	if !models.CanTransition(order.Status, in.Status) {
		return models.Order{}, badRequest(
			fmt.Sprintf("Không thể chuyển trạng thái từ %s sang %s", order.Status, in.Status))
	}

	extra := bson.M{}
	if in.Status == models.StatusDelivered {
		now := time.Now()
		extra["deliveredAt"] = now
		extra["isPaid"] = true
		extra["paidAt"] = now
	}

	updated, err := s.orders.UpdateStatus(ctx, id, in.Status, extra)
	if err != nil {
		return models.Order{}, err
	}
	if in.Status == models.StatusDelivered {
		event.Fire("order.delivered", updated)
	}
	return updated, nil
}

func (s *OrderService) cancel(ctx context.Context, order models.Order) (models.Order, error) {
	if !models.CanTransition(order.Status, models.StatusCancelled) {
		return models.Order{}, badRequest("Không thể hủy đơn hàng này")
	}

	updated, err := s.orders.UpdateStatus(ctx, order.ID, models.StatusCancelled, nil)
	if err != nil {
		return models.Order{}, err
	}

	for _, it := range order.Items {
		if err := s.products.ReleaseStock(ctx, it.Product, it.Quantity); err != nil {
			logger.Error("orders: restock on cancel failed",
				"order_id", order.ID.Hex(), "product", it.Product.Hex(), "error", err)
		}
	}

	logger.Info("orders: cancelled", "order_id", order.ID.Hex())
	event.Fire("order.cancelled", updated)
	return updated, nil
}

// checkPromotion validates a code against the current time and order
// subtotal without consuming a usage slot.
func (s *OrderService) checkPromotion(ctx context.Context, code string, subtotal float64, now time.Time) (models.Promotion, error) {
	promo, err := s.promotions.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Promotion{}, badRequest("Mã giảm giá không hợp lệ")
		}
		return models.Promotion{}, err
	}
	if !promo.ValidAt(now) {
		return models.Promotion{}, badRequest("Mã giảm giá đã hết hạn")
	}
	if promo.Exhausted() {
		return models.Promotion{}, badRequest("Mã giảm giá đã hết lượt sử dụng")
	}
	if subtotal < promo.MinOrderAmount {
		return models.Promotion{}, badRequest("Đơn hàng chưa đạt giá trị tối thiểu")
	}
	return promo, nil
}

// buildPage resolves buyer references for a page of orders.
func (s *OrderService) buildPage(ctx context.Context, orders []models.Order, total int64, page, limit int) (OrderPage, error) {
	ids := make([]primitive.ObjectID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.User)
	}
	refs, err := s.users.RefsByIDs(ctx, ids)
	if err != nil {
		return OrderPage{}, err
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, models.OrderView{Order: o, User: refs[o.User]})
	}
	return OrderPage{
		Orders:     views,
		Page:       page,
		TotalPages: totalPages(total, limit),
		Total:      total,
	}, nil
}
