package indexer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	swap "github.com/taoline/taocli-go/pallets/swap"
)

func testPositions() []swap.PositionRecord {
	return []swap.PositionRecord{
		{ID: 1, Netuid: 1, TickLow: -100, TickHigh: 100, Liquidity: big.NewInt(10)},
		{ID: 2, Netuid: 1, TickLow: -50, TickHigh: 50, Liquidity: big.NewInt(20)},
		{ID: 3, Netuid: 2, TickLow: 0, TickHigh: 200, Liquidity: big.NewInt(30)},
	}
}

func TestIndexedPositions(t *testing.T) {
	indexed := New().Index(testPositions())

	t.Run("by id", func(t *testing.T) {
		p, ok := indexed.GetByID(2)
		require.True(t, ok)
		assert.Equal(t, uint64(2), p.ID)

		_, ok = indexed.GetByID(99)
		assert.False(t, ok)
	})

	t.Run("by netuid", func(t *testing.T) {
		assert.Len(t, indexed.GetByNetuid(1), 2)
		assert.Len(t, indexed.GetByNetuid(2), 1)
		assert.Empty(t, indexed.GetByNetuid(7))
	})

	t.Run("all and len", func(t *testing.T) {
		assert.Equal(t, 3, indexed.Len())
		assert.Len(t, indexed.All(), 3)
	})

	t.Run("lookups return copies", func(t *testing.T) {
		indexed.All()[0].ID = 99
		indexed.GetByNetuid(1)[0].ID = 99

		p, ok := indexed.GetByID(1)
		require.True(t, ok)
		assert.Equal(t, uint64(1), p.ID)
		assert.Equal(t, uint64(1), indexed.All()[0].ID)
	})

	t.Run("empty input", func(t *testing.T) {
		empty := NewIndexedPositions(nil)
		assert.Zero(t, empty.Len())
		assert.Empty(t, empty.All())
	})
}
