package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lekhanhduy0411/tiemlen/app/models"
)

func TestPromotionDiscount(t *testing.T) {
	percent := models.Promotion{Type: models.PromoPercentage, Value: 10, MaxDiscount: 100000}

	// 10% of 200,000₫ is under the cap.
	assert.Equal(t, 20000.0, percent.Discount(200000))
	// 10% of 2,000,000₫ hits the 100,000₫ cap.
	assert.Equal(t, 100000.0, percent.Discount(2000000))

	// 10% of 200,000₫ would be 20,000₫ but the cap takes it down to 15,000₫.
	tightCap := models.Promotion{Type: models.PromoPercentage, Value: 10, MaxDiscount: 15000}
	assert.Equal(t, 15000.0, tightCap.Discount(200000))

	uncapped := models.Promotion{Type: models.PromoPercentage, Value: 15}
	assert.Equal(t, 150000.0, uncapped.Discount(1000000))

	fixed := models.Promotion{Type: models.PromoFixed, Value: 50000, MaxDiscount: 10000}
	// fixed promotions ignore the cap, they ARE the amount
	assert.Equal(t, 50000.0, fixed.Discount(800000))
}

func TestPromotionValidAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	p := models.Promotion{
		IsActive:  true,
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
	}

	assert.True(t, p.ValidAt(now))
	assert.True(t, p.ValidAt(p.StartDate), "window is inclusive at both ends")
	assert.True(t, p.ValidAt(p.EndDate))
	assert.False(t, p.ValidAt(p.StartDate.Add(-time.Second)))
	assert.False(t, p.ValidAt(p.EndDate.Add(time.Second)))

	p.IsActive = false
	assert.False(t, p.ValidAt(now), "inactive promotion never validates")
}

func TestPromotionExhausted(t *testing.T) {
	assert.False(t, models.Promotion{UsageLimit: 0, UsedCount: 9999}.Exhausted(),
		"zero limit means unlimited")
	assert.False(t, models.Promotion{UsageLimit: 100, UsedCount: 99}.Exhausted())
	assert.True(t, models.Promotion{UsageLimit: 100, UsedCount: 100}.Exhausted())
	assert.True(t, models.Promotion{UsageLimit: 100, UsedCount: 101}.Exhausted())
}
