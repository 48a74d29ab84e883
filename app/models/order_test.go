package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lekhanhduy0411/tiemlen/app/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		// the happy path, one step at a time
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusConfirmed, models.StatusProcessing, true},
		{models.StatusProcessing, models.StatusShipping, true},
		{models.StatusShipping, models.StatusDelivered, true},

		// no skipping steps
		{models.StatusPending, models.StatusProcessing, false},
		{models.StatusPending, models.StatusDelivered, false},
		{models.StatusConfirmed, models.StatusShipping, false},

		// no going backwards
		{models.StatusShipping, models.StatusConfirmed, false},
		{models.StatusConfirmed, models.StatusPending, false},

		// cancel allowed from every non-terminal state
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusCancelled, true},
		{models.StatusShipping, models.StatusCancelled, true},

		// terminal states stay terminal
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusShipping, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusCancelled, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, models.CanTransition(tc.from, tc.to),
			"%s → %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		models.StatusPending, models.StatusConfirmed, models.StatusProcessing,
		models.StatusShipping, models.StatusDelivered, models.StatusCancelled,
	} {
		assert.True(t, models.ValidStatus(s), s)
	}
	assert.False(t, models.ValidStatus("refunded"))
	assert.False(t, models.ValidStatus(""))
}
