package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/models"
	"github.com/craftcart/commerce-api/services/catalog"
)

type mockRepository struct {
	mu   sync.Mutex
	cart *models.Cart
}

func (m *mockRepository) Mutate(_ context.Context, userID string, fn func(*models.Cart) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cart
	transient := false
	if c == nil {
		c = &models.Cart{UserID: userID}
		transient = true
	}
	if err := fn(c); err != nil {
		return err
	}
	if transient && len(c.Items) == 0 {
		return nil
	}
	m.cart = c
	return nil
}

func (m *mockRepository) items() []models.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return nil
	}
	out := make([]models.CartLine, len(m.cart.Items))
	copy(out, m.cart.Items)
	return out
}

type fakeResolver struct {
	mu       sync.Mutex
	products map[uint]catalog.Summary
}

func (f *fakeResolver) Resolve(_ context.Context, id uint) (catalog.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.products[id]; ok {
		return s, nil
	}
	return catalog.Summary{}, apperr.Newf(apperr.KindNotFound, "product %d not found", id)
}

func (f *fakeResolver) remove(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
}

func newTestStore() (*Store, *mockRepository, *fakeResolver) {
	repo := &mockRepository{}
	resolver := &fakeResolver{products: map[uint]catalog.Summary{
		1: {ID: 1, Name: "Mug", Price: 50},
		2: {ID: 2, Name: "Shirt", Price: 120},
	}}
	return NewStore(repo, resolver, zap.NewNop(), nil), repo, resolver
}

func TestAddMergesSameVariant(t *testing.T) {
	store, repo, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 2, Size: "M", Color: "red"}))
	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 3, Size: "M", Color: "red"}))

	items := repo.items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.NotEmpty(t, items[0].ID)
}

func TestAddDistinctVariantsStaySeparate(t *testing.T) {
	store, repo, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 1, Size: "M", Color: "red"}))
	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 1, Size: "L", Color: "red"}))
	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 2, Quantity: 1, Size: "M", Color: "red"}))

	items := repo.items()
	require.Len(t, items, 3)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestAddUnknownProductFails(t *testing.T) {
	store, repo, _ := newTestStore()

	err := store.Add(context.Background(), "u1", AddInput{ProductID: 99, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Nil(t, repo.items(), "no cart should be created for a failed add")
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	store, _, _ := newTestStore()

	err := store.Add(context.Background(), "u1", AddInput{ProductID: 1, Quantity: 0})
	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestGetPrunesDeletedProductsPermanently(t *testing.T) {
	store, repo, resolver := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 2}))
	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 2, Quantity: 1}))
	resolver.remove(2)

	lines, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint(1), lines[0].Product.ID)
	assert.Equal(t, "Mug", lines[0].Product.Name)

	// The drop must be persisted, not recomputed on every read.
	require.Len(t, repo.items(), 1)

	again, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, lines, again)
}

func TestGetWithoutCartReturnsEmpty(t *testing.T) {
	store, repo, _ := newTestStore()

	lines, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Nil(t, repo.items(), "reading must not create a cart")
}

func TestUpdateQuantityClampsToFloorOfOne(t *testing.T) {
	store, repo, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 4}))
	lineID := repo.items()[0].ID

	require.NoError(t, store.UpdateQuantity(ctx, "u1", lineID, 0))
	items := repo.items()
	require.Len(t, items, 1, "a zero quantity must not remove the line")
	assert.Equal(t, 1, items[0].Quantity)

	require.NoError(t, store.UpdateQuantity(ctx, "u1", lineID, -3))
	assert.Equal(t, 1, repo.items()[0].Quantity)
}

func TestUpdateQuantityFallsBackToProductID(t *testing.T) {
	store, repo, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 1}))

	// Old clients address lines by product id.
	require.NoError(t, store.UpdateQuantity(ctx, "u1", "1", 7))
	assert.Equal(t, 7, repo.items()[0].Quantity)
}

func TestUpdateQuantityUnknownLineFails(t *testing.T) {
	store, _, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 1}))

	err := store.UpdateQuantity(ctx, "u1", "no-such-line", 2)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, repo, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 1}))
	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 2, Quantity: 1}))
	lineID := repo.items()[0].ID

	require.NoError(t, store.Remove(ctx, "u1", lineID))
	after := repo.items()
	require.Len(t, after, 1)

	// Second removal of the same id is a no-op, not an error.
	require.NoError(t, store.Remove(ctx, "u1", lineID))
	assert.Equal(t, after, repo.items())
}

func TestClearEmptiesCart(t *testing.T) {
	store, repo, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 1}))
	require.NoError(t, store.Clear(ctx, "u1"))
	assert.Empty(t, repo.items())
}

func TestConcurrentAddsNeverLoseUpdates(t *testing.T) {
	store, repo, _ := newTestStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Add(ctx, "u1", AddInput{ProductID: 1, Quantity: 1, Size: "M", Color: "red"}))
		}()
	}
	wg.Wait()

	items := repo.items()
	require.Len(t, items, 1)
	assert.Equal(t, 20, items[0].Quantity)
}
