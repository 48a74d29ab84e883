package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lekhanhduy0411/tiemlen/app/models"
)

func TestCartRecalcTotal(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{Product: primitive.NewObjectID(), Quantity: 2, Price: 150000},
		{Product: primitive.NewObjectID(), Quantity: 1, Price: 89000},
	}}
	cart.RecalcTotal()
	assert.Equal(t, 389000.0, cart.TotalAmount)

	cart.Items = nil
	cart.RecalcTotal()
	assert.Equal(t, 0.0, cart.TotalAmount)
}

func TestCartFindAndRemoveItem(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	cart := models.Cart{Items: []models.CartItem{
		{Product: a, Quantity: 1, Price: 100000},
		{Product: b, Quantity: 3, Price: 50000},
	}}

	item := cart.FindItem(b)
	assert.NotNil(t, item)
	assert.Equal(t, 3, item.Quantity)

	// FindItem returns a live pointer, mutations stick
	item.Quantity = 5
	assert.Equal(t, 5, cart.Items[1].Quantity)

	assert.Nil(t, cart.FindItem(primitive.NewObjectID()))

	assert.True(t, cart.RemoveItem(a))
	assert.Len(t, cart.Items, 1)
	assert.False(t, cart.RemoveItem(a), "second remove finds nothing")
}
