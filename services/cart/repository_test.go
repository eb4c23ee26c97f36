package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/craftcart/commerce-api/models"
)

// linesEqual decides whether Mutate skips the line rewrite, so a pure read
// must compare equal and any in-place mutation must not.
func TestLinesEqualTellsReadsFromMutations(t *testing.T) {
	now := time.Now()
	base := []models.CartLine{
		{ID: "a", ProductID: 1, Quantity: 2, Size: "M", Color: "red", AddedAt: now},
		{ID: "b", ProductID: 2, Quantity: 1, AddedAt: now},
	}

	same := make([]models.CartLine, len(base))
	copy(same, base)
	assert.True(t, linesEqual(base, same))
	assert.True(t, linesEqual(nil, []models.CartLine{}))

	bumped := make([]models.CartLine, len(base))
	copy(bumped, base)
	bumped[1].Quantity = 5
	assert.False(t, linesEqual(base, bumped), "quantity change must force a rewrite")

	assert.False(t, linesEqual(base, base[:1]), "pruned line must force a rewrite")

	added := append(same, models.CartLine{ID: "c", ProductID: 3, Quantity: 1, AddedAt: now})
	assert.False(t, linesEqual(base, added), "appended line must force a rewrite")
}
