package doe

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFactorialTable_FirstAxisFastest(t *testing.T) {
	axes := []FactorialAxis{
		{Parameter: ParameterSpec{Name: "a"}, Values: []float64{1, 2}},
		{Parameter: ParameterSpec{Name: "b"}, Values: []float64{10, 20, 30}},
	}
	table, err := BuildFactorialTable(axes)
	require.NoError(t, err)
	require.Equal(t, 6, table.Rows())

	expected := [][]float64{
		{1, 10}, {2, 10},
		{1, 20}, {2, 20},
		{1, 30}, {2, 30},
	}
	for r, want := range expected {
		assert.Equal(t, want, table.Row(r), "row %d", r)
	}
}

func TestBuildFactorialTable_ThreeAxesCoverEveryCombination(t *testing.T) {
	axes := []FactorialAxis{
		{Values: []float64{0, 1}},
		{Values: []float64{0, 1, 2}},
		{Values: []float64{0, 1, 2, 3}},
	}
	table, err := BuildFactorialTable(axes)
	require.NoError(t, err)
	require.Equal(t, 24, table.Rows())

	seen := make(map[[3]float64]bool)
	for r := 0; r < table.Rows(); r++ {
		row := table.Row(r)
		key := [3]float64{row[0], row[1], row[2]}
		assert.False(t, seen[key], "duplicate combination %v", key)
		seen[key] = true
		// Multi-radix counter with the first axis as the lowest digit.
		assert.Equal(t, float64(r%2), row[0])
		assert.Equal(t, float64((r/2)%3), row[1])
		assert.Equal(t, float64(r/6), row[2])
	}
}

func TestBuildFactorialTable_NoAxes(t *testing.T) {
	table, err := BuildFactorialTable(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Rows())
	assert.Empty(t, table.Row(0))
}

func TestBuildFactorialTable_EmptyAxis(t *testing.T) {
	_, err := BuildFactorialTable([]FactorialAxis{{Parameter: ParameterSpec{Name: "x"}}})
	assert.Error(t, err)
}

func TestDesignSize(t *testing.T) {
	axis := func(n int) FactorialAxis {
		return FactorialAxis{Parameter: ParameterSpec{Name: "x"}, Values: make([]float64, n)}
	}
	testCases := []struct {
		name    string
		axes    []FactorialAxis
		samples int
		want    int
		wantErr bool
	}{
		{"no_axes_no_samples", nil, 0, 1, false},
		{"samples_only", nil, 7, 7, false},
		{"axes_times_samples", []FactorialAxis{axis(5), axis(4)}, 3, 60, false},
		{"long_axis", []FactorialAxis{axis(20000)}, 0, 20000, false},
		{"at_limit", []FactorialAxis{axis(5000), axis(5000)}, 2, maxDesignRows, false},
		{"samples_push_past_limit", []FactorialAxis{axis(5000), axis(5000)}, 3, 0, true},
		{"cross_product_past_limit", []FactorialAxis{axis(10000), axis(10000)}, 1, 0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := designSize(tc.axes, tc.samples)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrConfiguration), "expected configuration error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
