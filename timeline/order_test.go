package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)

func bar(category string, startDay, endDay int) Bar {
	return Bar{
		Category: category,
		Start:    t0.AddDate(0, 0, startDay),
		End:      t0.AddDate(0, 0, endDay),
	}
}

func TestTotalAscending(t *testing.T) {
	bars := []Bar{
		bar("long", 0, 10),
		bar("short", 0, 2),
		bar("split", 0, 3), // two bars that add up to 6 days
		bar("split", 5, 8),
	}
	order, err := TotalAscending(bars)
	require.NoError(t, err)
	assert.Equal(t, []string{"short", "split", "long"}, order)
}

func TestTotalAscendingTiesKeepFirstAppearance(t *testing.T) {
	bars := []Bar{
		bar("Task A", 0, 9),
		bar("Task B", 14, 24),
		bar("Task C", 35, 45),
	}
	order, err := TotalAscending(bars)
	require.NoError(t, err)
	assert.Equal(t, []string{"Task A", "Task B", "Task C"}, order)

	order, err = TotalAscending([]Bar{bar("z", 0, 1), bar("a", 0, 1), bar("m", 0, 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, order)
}

func TestTotalAscendingEmpty(t *testing.T) {
	order, err := TotalAscending(nil)
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestChartCategoriesFallback(t *testing.T) {
	c := &Chart{Bars: []Bar{bar("b", 0, 1), bar("a", 1, 2), bar("b", 2, 3)}}
	assert.Equal(t, []string{"b", "a"}, c.categories())

	require.NoError(t, c.OrderTotalAscending())
	assert.Equal(t, []string{"a", "b"}, c.categories())
}
