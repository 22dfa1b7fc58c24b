package cart_test

import (
	"testing"

	"matjar/internal/cart"
	"matjar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newStoreDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:cartstore?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&cart.CartRecord{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM cart_records")
	})
	return db
}

func TestGORMStore_LoadMissingCart(t *testing.T) {
	store := cart.NewGORMStore(newStoreDB(t))

	lines, err := store.Load("trader-unknown")
	assert.NoError(t, err)
	assert.Nil(t, lines)
}

func TestGORMStore_SaveAndLoad(t *testing.T) {
	store := cart.NewGORMStore(newStoreDB(t))

	saved := []models.CartLine{
		{
			ID:              "line-1",
			ProductID:       "prod-1",
			Name:            "Shirt",
			WholesalePrice:  4750,
			SellingPrice:    6000,
			Quantity:        2,
			SelectedVariant: "أحمر",
			SelectedSize:    "M",
			MinSellingPrice: 4750,
			MaxSellingPrice: 30000,
			AvailableStock:  10,
		},
	}
	require.NoError(t, store.Save("trader-1", saved))

	loaded, err := store.Load("trader-1")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestGORMStore_SaveOverwrites(t *testing.T) {
	store := cart.NewGORMStore(newStoreDB(t))

	require.NoError(t, store.Save("trader-1", []models.CartLine{{ID: "line-1", ProductID: "prod-1", Quantity: 1}}))
	require.NoError(t, store.Save("trader-1", nil))

	loaded, err := store.Load("trader-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
