package calculation

import (
	"context"
	"sync"
	"testing"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoCachesProjections(t *testing.T) {
	memo := NewMemo(NewEngine(), 0)
	s := scenario("0.07", "0.03")
	req := request("25000", "1500", 10)

	first, sum1, err := memo.Project(s, req)
	require.NoError(t, err)
	assert.Equal(t, 1, memo.Len())

	renamed := s
	renamed.Name = "Renamed"
	second, sum2, err := memo.Project(renamed, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, sum1, sum2)

	hits, misses := memo.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 1, memo.Len())
}

func TestMemoReturnsCopies(t *testing.T) {
	memo := NewMemo(NewEngine(), 4)
	s := scenario("0.05", "0.02")
	req := request("1000", "100", 2)

	records, _, err := memo.Project(s, req)
	require.NoError(t, err)
	records[0].EndingBalance = d("-1")

	again, _, err := memo.Project(s, req)
	require.NoError(t, err)
	assert.True(t, again[0].EndingBalance.Equal(d("2250")))
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	memo := NewMemo(NewEngine(), 4)
	_, _, err := memo.Project(scenario("0.05", "0.02"), request("1000", "100", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, memo.Len())
}

func TestMemoEvictsAndPurges(t *testing.T) {
	memo := NewMemo(NewEngine(), 2)
	for years := 1; years <= 5; years++ {
		_, _, err := memo.Project(scenario("0.05", "0.02"), request("1000", "100", years))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, memo.Len())

	memo.Purge()
	assert.Equal(t, 0, memo.Len())
}

func TestMemoKey(t *testing.T) {
	a, err := MemoKey(scenario("0.07", "0.03"), request("100", "10", 5))
	require.NoError(t, err)
	assert.Len(t, a, 64)

	// Equal decimals with different scale share a key.
	b, err := MemoKey(scenario("0.070", "0.03"), request("100.00", "10", 5))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := MemoKey(scenario("0.07", "0.03"), request("100", "10", 6))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestMemoUnderComparator(t *testing.T) {
	memo := NewMemo(NewEngine(), 0)
	template := request("25000", "1500", 10)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Compare(context.Background(), memo, domain.PresetScenarios(), template)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, memo.Len())
}
