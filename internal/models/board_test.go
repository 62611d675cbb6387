package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartHolderKeepsSingleInstance(t *testing.T) {
	var h ChartHolder
	first := &Chart{ID: "first", PNG: []byte("a")}
	second := &Chart{ID: "second", PNG: []byte("b")}

	h.Replace(first)
	h.Replace(second)

	assert.Same(t, second, h.Current())
	assert.Nil(t, first.PNG)

	_, err := h.ByID("first")
	assert.ErrorIs(t, err, ErrChartNotFound)
	got, err := h.ByID("second")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got.PNG)
}

func TestBoardCloseDisposesChart(t *testing.T) {
	b := NewBoard()
	assert.True(t, b.Apply(&BoardResult{Area: "Baner"}, &Chart{ID: "c", PNG: []byte("x")}))
	assert.Equal(t, "c", b.View().ChartID)

	b.Close()
	assert.Empty(t, b.View().ChartID)
	assert.False(t, b.Apply(&BoardResult{Area: "Aundh"}, &Chart{ID: "d"}))
	_, err := b.Chart("d")
	assert.ErrorIs(t, err, ErrChartNotFound)
}
