package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lekhanhduy0411/tiemlen/app/models"
)

func TestAverageRating(t *testing.T) {
	avg, count := models.AverageRating(nil)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, count)

	avg, count = models.AverageRating([]models.Review{
		{Rating: 5}, {Rating: 4}, {Rating: 4},
	})
	assert.Equal(t, 4.3, avg, "13/3 rounds to one decimal")
	assert.Equal(t, 3, count)

	avg, _ = models.AverageRating([]models.Review{{Rating: 3}, {Rating: 4}})
	assert.Equal(t, 3.5, avg)
}
