package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_IsValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category("Garden").IsValid())
	assert.False(t, Category("").IsValid())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("merchant").IsValid())
}

func TestOrder_ItemsTotal(t *testing.T) {
	order := &Order{Items: []OrderItem{
		{Quantity: 2, Price: 100},
		{Quantity: 1, Price: 50},
	}}

	assert.InDelta(t, 250.0, order.ItemsTotal(), 1e-9)
}

func TestUser_IsAdmin(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}
