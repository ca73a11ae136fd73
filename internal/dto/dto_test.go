package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderListQueryRangeCoversWholeDays(t *testing.T) {
	q := OrderListQuery{From: "2024-03-01", To: "2024-03-02"}
	from, to, err := q.Range(time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.UTC), *to)
}

func TestOrderListQueryRangeEmpty(t *testing.T) {
	from, to, err := OrderListQuery{}.Range(time.UTC)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)
}

func TestOrderListQueryRangeRejectsGarbage(t *testing.T) {
	_, _, err := OrderListQuery{From: "ayer"}.Range(time.UTC)
	assert.Error(t, err)
}
