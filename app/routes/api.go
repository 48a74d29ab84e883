// Package routes declares the HTTP route table.
package routes

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lekhanhduy0411/tiemlen/app/controllers"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/app/services"
	"github.com/lekhanhduy0411/tiemlen/pkg/ctx"
	"github.com/lekhanhduy0411/tiemlen/pkg/middleware"
	"github.com/lekhanhduy0411/tiemlen/pkg/router"
	"github.com/lekhanhduy0411/tiemlen/pkg/ws"
)

// staffRoles gates the back-office surface.
var staffRoles = []string{"admin", "staff"}

// Register mounts the whole API onto r. The hub is shared with the chat
// service so REST sends reach live WebSocket clients.
func Register(r *router.Router, hub *ws.Hub) {
	users := repositories.NewUserRepository()
	categories := repositories.NewCategoryRepository()
	products := repositories.NewProductRepository()
	carts := repositories.NewCartRepository()
	orders := repositories.NewOrderRepository()
	promotions := repositories.NewPromotionRepository()
	reviews := repositories.NewReviewRepository()
	chats := repositories.NewChatRepository()

	authSvc := services.NewAuthService(users)
	userSvc := services.NewUserService(users)
	categorySvc := services.NewCategoryService(categories)
	productSvc := services.NewProductService(products, categories)
	cartSvc := services.NewCartService(carts, products)
	orderSvc := services.NewOrderService(orders, carts, products, promotions, users)
	promotionSvc := services.NewPromotionService(promotions)
	reviewSvc := services.NewReviewService(reviews, orders, products, users)
	revenueSvc := services.NewRevenueService(orders, products, users)
	chatSvc := services.NewChatService(chats, users, hub)

	if hub != nil {
		hub.OnEvent = chatRelay(chatSvc)
	}

	authCtl := controllers.NewAuthController(authSvc)
	userCtl := controllers.NewUserController(userSvc)
	categoryCtl := controllers.NewCategoryController(categorySvc)
	productCtl := controllers.NewProductController(productSvc, reviewSvc)
	cartCtl := controllers.NewCartController(cartSvc)
	orderCtl := controllers.NewOrderController(orderSvc)
	promotionCtl := controllers.NewPromotionController(promotionSvc)
	reviewCtl := controllers.NewReviewController(reviewSvc)
	revenueCtl := controllers.NewRevenueController(revenueSvc)
	chatCtl := controllers.NewChatController(chatSvc)

	authed := middleware.Auth(authSvc.Verify)
	staff := middleware.RequireRole(staffRoles...)
	admin := middleware.RequireRole("admin")

	api := r.Group("/api")

	// Auth and profile.
	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", ctx.Wrap(authCtl.Register))
	auth.Post("/login", "auth.login", ctx.Wrap(authCtl.Login))
	auth.Get("/me", "auth.me", ctx.Wrap(authCtl.Profile), authed)
	auth.Put("/profile", "auth.profile.update", ctx.Wrap(authCtl.UpdateProfile), authed)
	auth.Put("/password", "auth.password", ctx.Wrap(authCtl.ChangePassword), authed)

	// Categories: public active listing, staff management.
	categoriesGrp := api.Group("/categories")
	categoriesGrp.Get("/", "categories.index", ctx.Wrap(categoryCtl.List))
	categoriesGrp.Get("/all", "categories.all", ctx.Wrap(categoryCtl.ListAll), authed, staff)
	categoriesGrp.Get("/{id}", "categories.show", ctx.Wrap(categoryCtl.Get), authed, staff)
	categoriesGrp.Post("/", "categories.create", ctx.Wrap(categoryCtl.Create), authed, staff)
	categoriesGrp.Put("/{id}", "categories.update", ctx.Wrap(categoryCtl.Update), authed, staff)
	categoriesGrp.Delete("/{id}", "categories.delete", ctx.Wrap(categoryCtl.Delete), authed, staff)

	// Products: public catalog, staff management.
	productsGrp := api.Group("/products")
	productsGrp.Get("/", "products.index", ctx.Wrap(productCtl.List))
	productsGrp.Get("/featured", "products.featured", ctx.Wrap(productCtl.Featured))
	productsGrp.Get("/slug/{slug}", "products.show", ctx.Wrap(productCtl.GetBySlug))
	productsGrp.Get("/admin/all", "products.all", ctx.Wrap(productCtl.ListAdmin), authed, staff)
	productsGrp.Get("/{id}", "products.detail", ctx.Wrap(productCtl.Get))
	productsGrp.Post("/", "products.create", ctx.Wrap(productCtl.Create), authed, staff)
	productsGrp.Put("/{id}", "products.update", ctx.Wrap(productCtl.Update), authed, staff)
	productsGrp.Delete("/{id}", "products.delete", ctx.Wrap(productCtl.Delete), authed, staff)

	// Cart, authenticated.
	cart := api.Group("/cart", authed)
	cart.Get("/", "cart.show", ctx.Wrap(cartCtl.Get))
	cart.Post("/add", "cart.add", ctx.Wrap(cartCtl.Add))
	cart.Put("/item/{productId}", "cart.update", ctx.Wrap(cartCtl.UpdateItem))
	cart.Delete("/item/{productId}", "cart.remove", ctx.Wrap(cartCtl.Remove))
	cart.Delete("/", "cart.clear", ctx.Wrap(cartCtl.Clear))

	// Orders: checkout and history for customers, fulfillment for staff.
	ordersGrp := api.Group("/orders", authed)
	ordersGrp.Post("/", "orders.place", ctx.Wrap(orderCtl.Place))
	ordersGrp.Get("/", "orders.index", ctx.Wrap(orderCtl.List), staff)
	ordersGrp.Get("/my-orders", "orders.mine", ctx.Wrap(orderCtl.MyOrders))
	ordersGrp.Get("/{id}", "orders.show", ctx.Wrap(orderCtl.Get))
	ordersGrp.Put("/{id}/status", "orders.status", ctx.Wrap(orderCtl.UpdateStatus), staff)
	ordersGrp.Put("/{id}/cancel", "orders.cancel", ctx.Wrap(orderCtl.Cancel))

	// Promotions: public active list + preview, staff management.
	promotionsGrp := api.Group("/promotions")
	promotionsGrp.Get("/active", "promotions.active", ctx.Wrap(promotionCtl.ListActive))
	promotionsGrp.Post("/apply", "promotions.apply", ctx.Wrap(promotionCtl.Apply), authed)
	promotionsGrp.Get("/", "promotions.index", ctx.Wrap(promotionCtl.List), authed, staff)
	promotionsGrp.Get("/{id}", "promotions.show", ctx.Wrap(promotionCtl.Get), authed, staff)
	promotionsGrp.Post("/", "promotions.create", ctx.Wrap(promotionCtl.Create), authed, staff)
	promotionsGrp.Put("/{id}", "promotions.update", ctx.Wrap(promotionCtl.Update), authed, staff)
	promotionsGrp.Delete("/{id}", "promotions.delete", ctx.Wrap(promotionCtl.Delete), authed, staff)

	// Reviews: buyers write, everyone reads, staff moderates.
	reviewsGrp := api.Group("/reviews")
	reviewsGrp.Post("/", "reviews.create", ctx.Wrap(reviewCtl.Create), authed)
	reviewsGrp.Get("/product/{id}", "reviews.by-product", ctx.Wrap(productCtl.Reviews))
	reviewsGrp.Get("/", "reviews.index", ctx.Wrap(reviewCtl.List), authed, staff)
	reviewsGrp.Delete("/{id}", "reviews.delete", ctx.Wrap(reviewCtl.Delete), authed, staff)

	// User management, admin only.
	usersGrp := api.Group("/users", authed, admin)
	usersGrp.Get("/", "users.index", ctx.Wrap(userCtl.List))
	usersGrp.Get("/{id}", "users.show", ctx.Wrap(userCtl.Get))
	usersGrp.Put("/{id}", "users.update", ctx.Wrap(userCtl.Update))
	usersGrp.Delete("/{id}", "users.delete", ctx.Wrap(userCtl.Delete))

	// Revenue dashboard, staff.
	api.Get("/revenue/stats", "revenue.stats", ctx.Wrap(revenueCtl.Stats), authed, staff)

	// Chat, authenticated.
	chat := api.Group("/chat", authed)
	chat.Post("/send", "chat.send", ctx.Wrap(chatCtl.Send))
	chat.Get("/conversations", "chat.conversations", ctx.Wrap(chatCtl.Conversations))
	chat.Get("/history/{userId}", "chat.history", ctx.Wrap(chatCtl.History))
}

// chatPayload is the data half of sendMessage/typing envelopes.
type chatPayload struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// chatRelay handles inbound WebSocket envelopes. "sendMessage" persists and
// forwards like the REST endpoint; "typing" is fire-and-forget.
func chatRelay(chatSvc *services.ChatService) func(*ws.Hub, *ws.Client, ws.Envelope) {
	return func(_ *ws.Hub, client *ws.Client, env ws.Envelope) {
		senderHex := client.UserID()
		if senderHex == "" {
			return // not joined yet
		}

		var data chatPayload
		if err := json.Unmarshal(env.Data, &data); err != nil || data.ReceiverID == "" {
			return
		}

		switch env.Event {
		case "sendMessage":
			senderID, err := primitive.ObjectIDFromHex(senderHex)
			if err != nil {
				return
			}
			chatSvc.Send(context.Background(), senderID, services.SendMessageInput{
				ReceiverID: data.ReceiverID,
				Message:    data.Message,
			})
		case "typing":
			chatSvc.NotifyTyping(senderHex, data.ReceiverID)
		}
	}
}
