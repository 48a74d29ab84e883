// Package seeders loads the demo catalog: three accounts, six categories,
// a dozen products and two promotion codes.
package seeders

import (
	"context"
	"fmt"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/auth"
	"github.com/lekhanhduy0411/tiemlen/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run wipes the seeded collections and reloads the demo data.
func Run(ctx context.Context) error {
	for _, col := range []string{
		mongodb.ColUsers, mongodb.ColCategories,
		mongodb.ColProducts, mongodb.ColPromotions,
	} {
		if _, err := mongodb.Collection(col).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("seed: clear %s: %w", col, err)
		}
	}

	if err := seedUsers(ctx); err != nil {
		return err
	}
	fmt.Println("  • users seeded")

	catIDs, err := seedCategories(ctx)
	if err != nil {
		return err
	}
	fmt.Println("  • categories seeded")

	if err := seedProducts(ctx, catIDs); err != nil {
		return err
	}
	fmt.Println("  • products seeded")

	if err := seedPromotions(ctx); err != nil {
		return err
	}
	fmt.Println("  • promotions seeded")

	fmt.Println("\nAccounts:")
	fmt.Println("  admin@handmade.com / admin123")
	fmt.Println("  staff@handmade.com / staff123")
	fmt.Println("  customer@handmade.com / customer123")
	return nil
}

func seedUsers(ctx context.Context) error {
	users := repositories.NewUserRepository()

	accounts := []struct {
		fullName, email, password, phone, address, role string
	}{
		{"Admin Handmade", "admin@handmade.com", "admin123", "0901234567", "", models.RoleAdmin},
		{"Nhân viên Lan", "staff@handmade.com", "staff123", "0901234568", "", models.RoleStaff},
		{"Nguyễn Văn An", "customer@handmade.com", "customer123", "0901234569", "123 Đường Lê Lợi, Q.1, TP.HCM", models.RoleCustomer},
	}

	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return err
		}
		user := models.User{
			FullName: a.fullName,
			Email:    a.email,
			Password: hash,
			Phone:    a.phone,
			Address:  a.address,
			Role:     a.role,
			IsActive: true,
		}
		if err := users.Create(ctx, &user); err != nil {
			return fmt.Errorf("seed: user %s: %w", a.email, err)
		}
	}
	return nil
}

func seedCategories(ctx context.Context) ([]primitive.ObjectID, error) {
	categories := repositories.NewCategoryRepository()

	data := []models.Category{
		{Name: "Trang sức handmade", Description: "Trang sức thủ công tinh xảo", Image: "https://images.unsplash.com/photo-1515562141589-67f0d916b4aa?w=400"},
		{Name: "Túi xách handmade", Description: "Túi xách thủ công độc đáo", Image: "https://images.unsplash.com/photo-1590874103328-eac38a683ce7?w=400"},
		{Name: "Nến thơm", Description: "Nến thơm handmade từ sáp tự nhiên", Image: "https://images.unsplash.com/photo-1602607881009-5132fd8decca?w=400"},
		{Name: "Gốm sứ handmade", Description: "Gốm sứ thủ công mỹ nghệ", Image: "https://images.unsplash.com/photo-1565193566173-7a0ee3dbe261?w=400"},
		{Name: "Đồ trang trí", Description: "Đồ trang trí nhà cửa handmade", Image: "https://images.unsplash.com/photo-1513519245088-0e12902e35ca?w=400"},
		{Name: "Quà tặng", Description: "Quà tặng handmade ý nghĩa", Image: "https://images.unsplash.com/photo-1549465220-1a8b9238f6ed?w=400"},
	}

	ids := make([]primitive.ObjectID, 0, len(data))
	for i := range data {
		data[i].IsActive = true
		if err := categories.Create(ctx, &data[i]); err != nil {
			return nil, fmt.Errorf("seed: category %s: %w", data[i].Name, err)
		}
		ids = append(ids, data[i].ID)
	}
	return ids, nil
}

func seedProducts(ctx context.Context, cats []primitive.ObjectID) error {
	products := repositories.NewProductRepository()

	data := []models.Product{
		{Name: "Vòng tay đá tự nhiên", Description: "Vòng tay được làm từ đá thạch anh tự nhiên, mang lại năng lượng tích cực cho người đeo. Mỗi viên đá đều được chọn lọc kỹ càng.", Price: 250000, OriginalPrice: 350000, Category: cats[0], Images: []string{"https://images.unsplash.com/photo-1573408301185-9146fe634ad0?w=600"}, Stock: 50, Sold: 120, Rating: 4.8, NumReviews: 45, Featured: true, Tags: []string{"vòng tay", "đá tự nhiên", "thạch anh"}},
		{Name: "Bông tai ngọc trai", Description: "Bông tai ngọc trai nước ngọt, được kết hợp với dây bạc 925. Thiết kế đơn giản nhưng sang trọng.", Price: 180000, OriginalPrice: 220000, Category: cats[0], Images: []string{"https://images.unsplash.com/photo-1535632066927-ab7c9ab60908?w=600"}, Stock: 30, Sold: 85, Rating: 4.6, NumReviews: 32, Featured: true, Tags: []string{"bông tai", "ngọc trai"}},
		{Name: "Dây chuyền hoa khô", Description: "Dây chuyền mặt kính chứa hoa khô thật, được bảo quản trong resin trong suốt. Mỗi chiếc là một tác phẩm nghệ thuật độc nhất.", Price: 150000, OriginalPrice: 200000, Category: cats[0], Images: []string{"https://images.unsplash.com/photo-1599643478518-a784e5dc4c8f?w=600"}, Stock: 25, Sold: 60, Rating: 4.7, NumReviews: 28, Tags: []string{"dây chuyền", "hoa khô", "resin"}},
		{Name: "Túi tote vải canvas", Description: "Túi tote vải canvas in họa tiết handmade, bền đẹp và thân thiện với môi trường. Phụ kiện dạo phố lý tưởng.", Price: 320000, OriginalPrice: 420000, Category: cats[1], Images: []string{"https://images.unsplash.com/photo-1594223274512-ad4803739b7c?w=600"}, Stock: 40, Sold: 95, Rating: 4.5, NumReviews: 38, Featured: true, Tags: []string{"túi tote", "canvas", "eco"}},
		{Name: "Ví cầm tay thêu hoa", Description: "Ví cầm tay được thêu tay hoa văn truyền thống, chất liệu vải lụa cao cấp. Phù hợp làm quà tặng.", Price: 280000, OriginalPrice: 350000, Category: cats[1], Images: []string{"https://images.unsplash.com/photo-1548036328-c9fa89d128fa?w=600"}, Stock: 20, Sold: 45, Rating: 4.9, NumReviews: 22, Featured: true, Tags: []string{"ví", "thêu tay", "truyền thống"}},
		{Name: "Nến thơm lavender", Description: "Nến thơm từ sáp đậu nành tự nhiên, hương lavender thư giãn. Thời gian cháy khoảng 40 giờ.", Price: 180000, OriginalPrice: 250000, Category: cats[2], Images: []string{"https://images.unsplash.com/photo-1602607881009-5132fd8decca?w=600"}, Stock: 60, Sold: 150, Rating: 4.9, NumReviews: 55, Featured: true, Tags: []string{"nến thơm", "lavender", "sáp đậu nành"}},
		{Name: "Set nến thơm 3 mùi", Description: "Bộ 3 nến thơm mini với 3 mùi hương khác nhau: vanilla, hoa hồng, bạc hà. Hộp quà tặng sang trọng.", Price: 350000, OriginalPrice: 450000, Category: cats[2], Images: []string{"https://images.unsplash.com/photo-1603905179682-9a4b46227e0b?w=600"}, Stock: 35, Sold: 80, Rating: 4.7, NumReviews: 30, Tags: []string{"nến thơm", "set", "quà tặng"}},
		{Name: "Cốc gốm vẽ tay", Description: "Cốc gốm được vẽ tay với họa tiết hoa lá, tráng men an toàn thực phẩm. Dung tích 300ml.", Price: 150000, OriginalPrice: 200000, Category: cats[3], Images: []string{"https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=600"}, Stock: 45, Sold: 110, Rating: 4.6, NumReviews: 42, Featured: true, Tags: []string{"cốc", "gốm", "vẽ tay"}},
		{Name: "Bình hoa gốm nghệ thuật", Description: "Bình hoa gốm được tạo hình thủ công, phong cách minimalist. Trang trí nhà cửa đẳng cấp.", Price: 450000, OriginalPrice: 600000, Category: cats[3], Images: []string{"https://images.unsplash.com/photo-1578749556568-bc2c40e68b61?w=600"}, Stock: 15, Sold: 35, Rating: 4.8, NumReviews: 18, Featured: true, Tags: []string{"bình hoa", "gốm", "minimalist"}},
		{Name: "Dreamcatcher handmade", Description: "Dreamcatcher được đan thủ công từ sợi macrame, trang trí lông vũ tự nhiên. Kích thước 30cm.", Price: 220000, OriginalPrice: 300000, Category: cats[4], Images: []string{"https://images.unsplash.com/photo-1503602642458-232111445657?w=600"}, Stock: 30, Sold: 70, Rating: 4.7, NumReviews: 25, Tags: []string{"dreamcatcher", "macrame", "trang trí"}},
		{Name: "Khung ảnh gỗ khắc tên", Description: "Khung ảnh gỗ tự nhiên, có thể khắc tên theo yêu cầu. Quà tặng ý nghĩa cho người thân.", Price: 280000, OriginalPrice: 350000, Category: cats[4], Images: []string{"https://images.unsplash.com/photo-1513519245088-0e12902e35ca?w=600"}, Stock: 25, Sold: 55, Rating: 4.5, NumReviews: 20, Tags: []string{"khung ảnh", "gỗ", "khắc tên"}},
		{Name: "Hộp quà handmade combo", Description: "Hộp quà gồm: nến thơm mini, túi thơm lavender, thiệp viết tay. Đóng hộp sang trọng.", Price: 400000, OriginalPrice: 550000, Category: cats[5], Images: []string{"https://images.unsplash.com/photo-1549465220-1a8b9238f6ed?w=600"}, Stock: 50, Sold: 130, Rating: 4.9, NumReviews: 48, Featured: true, Tags: []string{"hộp quà", "combo", "set quà"}},
		{Name: "Album ảnh scrapbook", Description: "Album ảnh scrapbook handmade, 40 trang, trang trí với sticker và washi tape. Lưu giữ kỷ niệm đẹp.", Price: 350000, OriginalPrice: 450000, Category: cats[5], Images: []string{"https://images.unsplash.com/photo-1506880018603-83d5b814b5a6?w=600"}, Stock: 0, Sold: 90, Rating: 4.6, NumReviews: 35, Tags: []string{"album", "scrapbook", "quà tặng"}},
	}

	for i := range data {
		data[i].IsActive = true
		if err := products.Create(ctx, &data[i]); err != nil {
			return fmt.Errorf("seed: product %s: %w", data[i].Name, err)
		}
	}
	return nil
}

func seedPromotions(ctx context.Context) error {
	promotions := repositories.NewPromotionRepository()

	data := []models.Promotion{
		{
			Code:           "WELCOME10",
			Name:           "Chào mừng thành viên mới",
			Description:    "Giảm 10% cho đơn hàng đầu tiên",
			Type:           models.PromoPercentage,
			Value:          10,
			MinOrderAmount: 200000,
			MaxDiscount:    100000,
			StartDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			UsageLimit:     1000,
			IsActive:       true,
		},
		{
			Code:           "HANDMADE50K",
			Name:           "Giảm 50K",
			Description:    "Giảm 50.000đ cho đơn hàng từ 500.000đ",
			Type:           models.PromoFixed,
			Value:          50000,
			MinOrderAmount: 500000,
			MaxDiscount:    50000,
			StartDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
			UsageLimit:     500,
			IsActive:       true,
		},
	}

	for i := range data {
		if err := promotions.Create(ctx, &data[i]); err != nil {
			return fmt.Errorf("seed: promotion %s: %w", data[i].Code, err)
		}
	}
	return nil
}
