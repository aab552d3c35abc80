package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func dailyDataset(n int) *Dataset {
	epoch := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := &Dataset{Points: make([]Point, n)}
	for i := range n {
		ds.Points[i] = Point{Date: epoch.AddDate(0, 0, i), Value: float64(i)}
	}

	return ds
}

func TestDataset_Validate(t *testing.T) {
	require.NoError(t, dailyDataset(5).Validate(5))
	require.Error(t, dailyDataset(4).Validate(5))

	var nilDS *Dataset
	require.Equal(t, 0, nilDS.Len())
	require.Error(t, nilDS.Validate(1))

	ds := dailyDataset(3)
	ds.Points[2].Date = ds.Points[1].Date
	require.Error(t, ds.Validate(3))
}

func TestDataset_Columns(t *testing.T) {
	ds := dailyDataset(3)

	require.Equal(t, []float64{0, 1, 2}, ds.Values())
	dates := ds.Dates()
	require.Len(t, dates, 3)
	require.Equal(t, 24*time.Hour, dates[1].Sub(dates[0]))
}
