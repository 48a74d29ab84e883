package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/event"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplyPromotionInput previews a code against an order amount.
type ApplyPromotionInput struct {
	Code        string  `json:"code" validate:"required,max=50"`
	OrderAmount float64 `json:"orderAmount" validate:"required,gt=0"`
}

// PromotionInput is the create payload. Dates accept RFC3339 or 2006-01-02.
type PromotionInput struct {
	Code           string  `json:"code" validate:"required,min=3,max=50"`
	Name           string  `json:"name" validate:"required,max=200"`
	Description    string  `json:"description" validate:"nullable,max=1000"`
	Type           string  `json:"type" validate:"required,in=percentage,fixed"`
	Value          float64 `json:"value" validate:"required,gt=0"`
	MinOrderAmount float64 `json:"minOrderAmount" validate:"nullable,gte=0"`
	MaxDiscount    float64 `json:"maxDiscount" validate:"nullable,gte=0"`
	StartDate      string  `json:"startDate" validate:"required,date"`
	EndDate        string  `json:"endDate" validate:"required,date"`
	UsageLimit     int     `json:"usageLimit" validate:"nullable,gte=0"`
	IsActive       *bool   `json:"isActive" validate:"nullable"`
}

// PromotionUpdateInput is the partial-update payload.
type PromotionUpdateInput struct {
	Code           string   `json:"code" validate:"nullable,min=3,max=50"`
	Name           string   `json:"name" validate:"nullable,max=200"`
	Description    *string  `json:"description" validate:"nullable,max=1000"`
	Type           string   `json:"type" validate:"nullable,in=percentage,fixed"`
	Value          *float64 `json:"value" validate:"nullable,gt=0"`
	MinOrderAmount *float64 `json:"minOrderAmount" validate:"nullable,gte=0"`
	MaxDiscount    *float64 `json:"maxDiscount" validate:"nullable,gte=0"`
	StartDate      string   `json:"startDate" validate:"nullable,date"`
	EndDate        string   `json:"endDate" validate:"nullable,date"`
	UsageLimit     *int     `json:"usageLimit" validate:"nullable,gte=0"`
	IsActive       *bool    `json:"isActive" validate:"nullable"`
}

// ApplyResult is the preview response: what the code would take off the
// given amount. Nothing is consumed; usage is counted at order placement.
type ApplyResult struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
}

// PromotionService implements discount-code management and the storefront
// preview.
type PromotionService struct {
	promotions *repositories.PromotionRepository
}

func NewPromotionService(promotions *repositories.PromotionRepository) *PromotionService {
	return &PromotionService{promotions: promotions}
}

// Apply previews a code. It never increments usedCount; two users can
// preview the same last slot and only one will win it at checkout.
func (s *PromotionService) Apply(ctx context.Context, in ApplyPromotionInput) (ApplyResult, error) {
	promo, err := s.promotions.FindByCode(ctx, in.Code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			event.Fire("promotion.applied", "invalid")
			return ApplyResult{}, badRequest("Mã giảm giá không hợp lệ")
		}
		return ApplyResult{}, err
	}

	now := time.Now()
	switch {
	case !promo.ValidAt(now):
		event.Fire("promotion.applied", "expired")
		return ApplyResult{}, badRequest("Mã giảm giá đã hết hạn")
	case promo.Exhausted():
		event.Fire("promotion.applied", "exhausted")
		return ApplyResult{}, badRequest("Mã giảm giá đã hết lượt sử dụng")
	case in.OrderAmount < promo.MinOrderAmount:
		event.Fire("promotion.applied", "below_minimum")
		return ApplyResult{}, badRequest("Đơn hàng chưa đạt giá trị tối thiểu")
	}

	discount := math.Min(promo.Discount(in.OrderAmount), in.OrderAmount)
	discount = math.Round(discount*100) / 100

	event.Fire("promotion.applied", "ok")
	return ApplyResult{
		Code:           promo.Code,
		DiscountAmount: discount,
		FinalAmount:    math.Round((in.OrderAmount-discount)*100) / 100,
	}, nil
}

func (s *PromotionService) ListAll(ctx context.Context) ([]models.Promotion, error) {
	return s.promotions.ListAll(ctx)
}

func (s *PromotionService) ListActive(ctx context.Context) ([]models.Promotion, error) {
	return s.promotions.ListActive(ctx, time.Now())
}

func (s *PromotionService) Get(ctx context.Context, id primitive.ObjectID) (models.Promotion, error) {
	promo, err := s.promotions.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Promotion{}, notFound("Không tìm thấy mã giảm giá")
	}
	return promo, err
}

func (s *PromotionService) Create(ctx context.Context, in PromotionInput) (models.Promotion, error) {
	start, end, err := parseWindow(in.StartDate, in.EndDate)
	if err != nil {
		return models.Promotion{}, err
	}

	promo := models.Promotion{
		Code:           in.Code,
		Name:           in.Name,
		Description:    in.Description,
		Type:           in.Type,
		Value:          in.Value,
		MinOrderAmount: in.MinOrderAmount,
		MaxDiscount:    in.MaxDiscount,
		StartDate:      start,
		EndDate:        end,
		UsageLimit:     in.UsageLimit,
		IsActive:       true,
	}
	if in.IsActive != nil {
		promo.IsActive = *in.IsActive
	}

	if err := s.promotions.Create(ctx, &promo); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Promotion{}, badRequest("Mã giảm giá đã tồn tại")
		}
		return models.Promotion{}, err
	}
	return promo, nil
}

func (s *PromotionService) Update(ctx context.Context, id primitive.ObjectID, in PromotionUpdateInput) (models.Promotion, error) {
	fields := bson.M{}
	if in.Code != "" {
		fields["code"] = in.Code
	}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Type != "" {
		fields["type"] = in.Type
	}
	if in.Value != nil {
		fields["value"] = *in.Value
	}
	if in.MinOrderAmount != nil {
		fields["minOrderAmount"] = *in.MinOrderAmount
	}
	if in.MaxDiscount != nil {
		fields["maxDiscount"] = *in.MaxDiscount
	}
	if in.StartDate != "" {
		t, err := parseDate(in.StartDate)
		if err != nil {
			return models.Promotion{}, badRequest("Ngày bắt đầu không hợp lệ")
		}
		fields["startDate"] = t
	}
	if in.EndDate != "" {
		t, err := parseDate(in.EndDate)
		if err != nil {
			return models.Promotion{}, badRequest("Ngày kết thúc không hợp lệ")
		}
		fields["endDate"] = t
	}
	if in.UsageLimit != nil {
		fields["usageLimit"] = *in.UsageLimit
	}
	if in.IsActive != nil {
		fields["isActive"] = *in.IsActive
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	promo, err := s.promotions.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Promotion{}, notFound("Không tìm thấy mã giảm giá")
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Promotion{}, badRequest("Mã giảm giá đã tồn tại")
		}
		return models.Promotion{}, err
	}
	return promo, nil
}

func (s *PromotionService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.promotions.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("Không tìm thấy mã giảm giá")
	}
	return err
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func parseWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("Ngày bắt đầu không hợp lệ")
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("Ngày kết thúc không hợp lệ")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, badRequest("Ngày kết thúc phải sau ngày bắt đầu")
	}
	return start, end, nil
}
