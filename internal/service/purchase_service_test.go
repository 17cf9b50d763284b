package service

import (
	"CookingSecret/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseFlow(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chef := e.db.addUser("chef", model.RoleChef)
	buyer := e.db.addUser("buyer", model.RoleUser)
	free := e.db.addRecipe(chef.ID, "Free")
	paid := e.db.addRecipe(chef.ID, "Paid")
	e.db.mu.Lock()
	e.db.recipes[paid.ID].IsPaid = true
	e.db.recipes[paid.ID].Price = 3.99
	e.db.mu.Unlock()

	_, err := e.purchases.Purchase(ctx, actorOf(buyer), free.ID)
	assert.ErrorIs(t, err, ErrRecipeNotPaid)
	_, err = e.purchases.Purchase(ctx, actorOf(buyer), 999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	state, err := e.purchases.CheckPurchased(ctx, actorOf(buyer), free.ID)
	require.NoError(t, err)
	assert.True(t, state.Purchased)
	assert.True(t, state.IsFree)

	state, err = e.purchases.CheckPurchased(ctx, actorOf(buyer), paid.ID)
	require.NoError(t, err)
	assert.False(t, state.Purchased)

	state, err = e.purchases.CheckPurchased(ctx, actorOf(chef), paid.ID)
	require.NoError(t, err)
	assert.True(t, state.Purchased)

	for range 2 {
		state, err = e.purchases.Purchase(ctx, actorOf(buyer), paid.ID)
		require.NoError(t, err)
		assert.True(t, state.Purchased)
	}
	assert.Len(t, e.db.purchase, 1)

	state, err = e.purchases.CheckPurchased(ctx, actorOf(buyer), paid.ID)
	require.NoError(t, err)
	assert.True(t, state.Purchased)
	assert.False(t, state.IsFree)
}

func TestListPurchases(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chef := e.db.addUser("chef", model.RoleChef)
	buyer := e.db.addUser("buyer", model.RoleUser)
	admin := e.db.addUser("admin", model.RoleAdmin)
	recipe := e.db.addRecipe(chef.ID, "Secret sauce")
	e.db.mu.Lock()
	e.db.recipes[recipe.ID].IsPaid = true
	e.db.recipes[recipe.ID].Price = 1
	e.db.mu.Unlock()

	_, err := e.purchases.Purchase(ctx, actorOf(buyer), recipe.ID)
	require.NoError(t, err)

	_, err = e.purchases.ListPurchases(ctx, actorOf(chef), buyer.ID, 0, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := e.purchases.ListPurchases(ctx, actorOf(admin), buyer.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, recipe.ID, list[0].ID)

	list, err = e.purchases.ListPurchases(ctx, actorOf(buyer), buyer.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
