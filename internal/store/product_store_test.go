package store

import (
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

func setupProductStore(t *testing.T) *MemoryProductStore {
	t.Helper()
	return NewMemoryProductStore(
		WithIDGenerator(idgen.NewSequence("product")),
		WithClock(func() time.Time { return fixedTime }),
	)
}

func TestMemoryProductStore_Create(t *testing.T) {
	store := setupProductStore(t)

	product := store.Create("Widget", "A widget", 10)

	assert.Equal(t, "product-1", product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, "A widget", product.Description)
	assert.Equal(t, 10.0, product.Price)
	assert.True(t, product.IsActive)
	assert.Equal(t, fixedTime, product.CreatedOn)
}

func TestMemoryProductStore_Create_AllowsDuplicateNames(t *testing.T) {
	store := setupProductStore(t)

	first := store.Create("Widget", "", 10)
	second := store.Create("Widget", "", 10)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.ListAll(), 2)
}

func TestMemoryProductStore_ListAll_Empty(t *testing.T) {
	store := setupProductStore(t)

	products := store.ListAll()
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestMemoryProductStore_Archive(t *testing.T) {
	store := setupProductStore(t)
	p1 := store.Create("Laptop", "", 1299.99)
	p2 := store.Create("Mouse", "", 29.99)
	p3 := store.Create("Keyboard", "", 49.99)

	require.NoError(t, store.Archive(p2.ID))

	archived, err := store.FindByID(p2.ID)
	require.NoError(t, err)
	assert.False(t, archived.IsActive)

	// Archived products stay in ListAll but leave ListActive, order preserved
	all := store.ListAll()
	require.Len(t, all, 3)
	assert.Equal(t, []string{p1.ID, p2.ID, p3.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	active := store.ListActive()
	require.Len(t, active, 2)
	assert.Equal(t, p1.ID, active[0].ID)
	assert.Equal(t, p3.ID, active[1].ID)

	// Archiving twice is idempotent
	require.NoError(t, store.Archive(p2.ID))
	archived, _ = store.FindByID(p2.ID)
	assert.False(t, archived.IsActive)
	assert.Len(t, store.ListAll(), 3)
}

func TestMemoryProductStore_Archive_NotFound(t *testing.T) {
	store := setupProductStore(t)

	err := store.Archive("nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryProductStore_Update(t *testing.T) {
	store := setupProductStore(t)
	created := store.Create("Widget", "A widget", 10)
	require.NoError(t, store.Archive(created.ID))

	updated, err := store.Update(created.ID, "Gadget", "A gadget", 12.5)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Gadget", updated.Name)
	assert.Equal(t, "A gadget", updated.Description)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, fixedTime, updated.CreatedOn)

	// Update never reactivates an archived product
	assert.False(t, updated.IsActive)
}

func TestMemoryProductStore_Update_NotFound(t *testing.T) {
	store := setupProductStore(t)

	_, err := store.Update("nonexistent-id", "n", "d", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryProductStore_FindByID_NotFound(t *testing.T) {
	store := setupProductStore(t)

	_, err := store.FindByID("nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryProductStore_Price(t *testing.T) {
	store := setupProductStore(t)
	p := store.Create("Widget", "", 10)
	require.NoError(t, store.Archive(p.ID))

	price, ok := store.Price(p.ID)
	assert.True(t, ok)
	assert.Equal(t, 10.0, price)

	price, ok = store.Price("nonexistent-id")
	assert.False(t, ok)
	assert.Equal(t, 0.0, price)
}

func TestMemoryProductStore_ConcurrentCreateAndArchive(t *testing.T) {
	store := setupProductStore(t)

	var wg sync.WaitGroup
	ids := make(chan string, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := store.Create("Item", "", 1)
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, store.Archive(id))
		}(id)
	}
	wg.Wait()

	assert.Len(t, store.ListAll(), 100)
	assert.Empty(t, store.ListActive())
}
