package classification

import (
	"testing"

	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/stretchr/testify/require"
)

func mustChart(t *testing.T, year, month, day, hour string) model.Chart {
	t.Helper()
	c, err := model.ParseChart(year, month, day, hour)
	require.NoError(t, err)
	return c
}

func mustMatrix(t *testing.T, c model.Chart) model.ElementMatrix {
	t.Helper()
	m, err := BuildMatrix(c)
	require.NoError(t, err)
	return m
}
