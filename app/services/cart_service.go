package services

import (
	"context"
	"errors"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddToCartInput adds quantity units of a product to the cart.
type AddToCartInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateCartItemInput sets the absolute quantity of an existing line.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// CartProduct is the populated product summary inside a cart line.
type CartProduct struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Slug  string             `json:"slug"`
	Image string             `json:"image"`
	Price float64            `json:"price"`
	Stock int                `json:"stock"`
}

// CartItemView is one populated cart line.
type CartItemView struct {
	Product  CartProduct `json:"product"`
	Quantity int         `json:"quantity"`
	Price    float64     `json:"price"`
}

// CartView is the cart response shape: lines populated, total denormalized.
type CartView struct {
	ID          primitive.ObjectID `json:"_id"`
	User        primitive.ObjectID `json:"user"`
	Items       []CartItemView     `json:"items"`
	TotalAmount float64            `json:"totalAmount"`
}

// CartService implements the per-user pending selection. Quantities are
// bounded by live stock at mutation time; the final say belongs to order
// placement.
type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(carts *repositories.CartRepository, products *repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the populated cart, creating an empty view when the user has
// none yet.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (CartView, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return CartView{User: userID, Items: []CartItemView{}}, nil
		}
		return CartView{}, err
	}
	return s.populate(ctx, cart)
}

// Add appends quantity units of a product, merging with an existing line.
// The line price snapshots the product price at first add.
func (s *CartService) Add(ctx context.Context, userID primitive.ObjectID, in AddToCartInput) (CartView, error) {
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return CartView{}, badRequest("Sản phẩm không hợp lệ")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil || !product.IsActive {
		if errors.Is(err, repositories.ErrNotFound) || err == nil {
			return CartView{}, notFound("Không tìm thấy sản phẩm")
		}
		return CartView{}, err
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return CartView{}, err
	}
	cart.User = userID

	want := in.Quantity
	if line := cart.FindItem(productID); line != nil {
		want += line.Quantity
	}
	if want > product.Stock {
		return CartView{}, badRequest("Sản phẩm không đủ hàng trong kho")
	}

	if line := cart.FindItem(productID); line != nil {
		line.Quantity = want
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			Product:  productID,
			Quantity: in.Quantity,
			Price:    product.Price,
		})
	}

	if err := s.carts.Save(ctx, &cart); err != nil {
		return CartView{}, err
	}
	return s.populate(ctx, cart)
}

// UpdateItem sets the absolute quantity of an existing line.
func (s *CartService) UpdateItem(ctx context.Context, userID primitive.ObjectID, productHex string, in UpdateCartItemInput) (CartView, error) {
	productID, err := primitive.ObjectIDFromHex(productHex)
	if err != nil {
		return CartView{}, badRequest("Sản phẩm không hợp lệ")
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return CartView{}, notFound("Giỏ hàng trống")
		}
		return CartView{}, err
	}

	line := cart.FindItem(productID)
	if line == nil {
		return CartView{}, notFound("Sản phẩm không có trong giỏ hàng")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return CartView{}, notFound("Không tìm thấy sản phẩm")
		}
		return CartView{}, err
	}
	if in.Quantity > product.Stock {
		return CartView{}, badRequest("Sản phẩm không đủ hàng trong kho")
	}

	line.Quantity = in.Quantity
	if err := s.carts.Save(ctx, &cart); err != nil {
		return CartView{}, err
	}
	return s.populate(ctx, cart)
}

// Remove drops a line from the cart.
func (s *CartService) Remove(ctx context.Context, userID primitive.ObjectID, productHex string) (CartView, error) {
	productID, err := primitive.ObjectIDFromHex(productHex)
	if err != nil {
		return CartView{}, badRequest("Sản phẩm không hợp lệ")
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return CartView{}, notFound("Giỏ hàng trống")
		}
		return CartView{}, err
	}

	if !cart.RemoveItem(productID) {
		return CartView{}, notFound("Sản phẩm không có trong giỏ hàng")
	}
	if err := s.carts.Save(ctx, &cart); err != nil {
		return CartView{}, err
	}
	return s.populate(ctx, cart)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.carts.Clear(ctx, userID)
}

// populate resolves each line's product into the summary the client renders.
// Lines whose product disappeared are dropped from the view.
func (s *CartService) populate(ctx context.Context, cart models.Cart) (CartView, error) {
	view := CartView{
		ID:          cart.ID,
		User:        cart.User,
		Items:       []CartItemView{},
		TotalAmount: cart.TotalAmount,
	}

	for _, line := range cart.Items {
		product, err := s.products.FindByID(ctx, line.Product)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return CartView{}, err
		}
		view.Items = append(view.Items, CartItemView{
			Product: CartProduct{
				ID:    product.ID,
				Name:  product.Name,
				Slug:  product.Slug,
				Image: product.FirstImage(),
				Price: product.Price,
				Stock: product.Stock,
			},
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return view, nil
}
