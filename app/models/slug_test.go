package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lekhanhduy0411/tiemlen/app/models"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Túi xách thêu tay":      "tui-xach-theu-tay",
		"Trang sức handmade":     "trang-suc-handmade",
		"Đồ trang trí":           "do-trang-tri",
		"Nến thơm & tinh dầu":    "nen-thom-tinh-dau",
		"  Khăn len  móc  tay  ": "khan-len-moc-tay",
		"100% Cotton":            "100-cotton",
		"":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, models.Slugify(in), "Slugify(%q)", in)
	}
}
