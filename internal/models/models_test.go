package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceFor(t *testing.T) {
	tour := &Tour{Price: 100}

	assert.Equal(t, 300.0, tour.PriceFor(2, 1, false))
	assert.Equal(t, 405.0, tour.PriceFor(2, 1, true))
	assert.Equal(t, 135.0, tour.PriceFor(1, 0, true))
	assert.Equal(t, 0.0, tour.PriceFor(0, 0, false))
}

func TestDisplayName(t *testing.T) {
	u := &User{FullName: "Jane Doe", Email: "jane@example.com"}
	assert.Equal(t, "Jane Doe", u.DisplayName())

	u.FullName = ""
	assert.Equal(t, "jane@example.com", u.DisplayName())
}

func TestBookingReference(t *testing.T) {
	b := &Booking{}
	assert.Equal(t, "", b.Reference())

	b.Tour = &Tour{Title: "Bwindi Gorilla Trek"}
	assert.Equal(t, "Bwindi Gorilla Trek", b.Reference())

	b.Adults, b.Kids = 2, 3
	assert.Equal(t, 5, b.ParticipantCount())
}
