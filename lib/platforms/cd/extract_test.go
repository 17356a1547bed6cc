package cd

import (
	"testing"

	_ "embed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/results_page.html
var resultsPage string

func TestConvertPrice(t *testing.T) {
	cases := []struct {
		hellers  int
		expected int
	}{
		{hellers: 100000, expected: 39},
		{hellers: 500, expected: 0},
		{hellers: -100, expected: 0},
		// 2559 crowns are exactly 100 euros at the fixed rate
		{hellers: 255900, expected: 100},
		// the hellers are dropped before converting, 2558.99 crowns become 2558
		{hellers: 255899, expected: 99},
		{hellers: 2559, expected: 0},
		{hellers: 2600, expected: 1},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, ConvertPrice(test.hellers), "hellers: %d", test.hellers)
	}
}

func TestExtractPrices(t *testing.T) {
	body := `{"offers":[{"price":500,"x":1},{"price":-100,"x":2},{"price":abc,"x":3},{"price":2000,"x":4},{"price":100000,"x":5}]}`
	diff := cmp.Diff([]int{0, 0, 0, 39}, ExtractPrices(body))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractLowestPriceOnlyTinyFares(t *testing.T) {
	// every fragment converts to 0 euros or fails to parse
	body := `"price":500, "price":-100, "price":abc, "price":2000,`
	_, ok := ExtractLowestPrice(body)
	require.False(t, ok)
}

func TestExtractLowestPrice(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected int
		ok       bool
	}{
		{
			name:     "mixed noise",
			body:     `"price":500, "price":-100, "price":abc, "price":2000, "price":100000,`,
			expected: 39,
			ok:       true,
		},
		{
			name:     "minimum of several",
			body:     `{"price":300000,"a":1}{"price":100000,"a":2}{"price":512000,"a":3}`,
			expected: 39,
			ok:       true,
		},
		{
			name:     "whitespace around number",
			body:     `"price": 200000 ,`,
			expected: 78,
			ok:       true,
		},
		{
			name: "no fragments",
			body: `<html><body>nothing here</body></html>`,
		},
		{
			name: "only non positive",
			body: `"price":0,"price":-500000,`,
		},
		{
			name: "fragment without trailing comma",
			body: `{"price":100000}`,
		},
		{
			name: "empty",
			body: ``,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			price, ok := ExtractLowestPrice(test.body)
			require.Equal(t, test.ok, ok)
			if test.ok {
				require.Equal(t, test.expected, price)
			}
		})
	}
}

func TestExtractLowestPriceFromPage(t *testing.T) {
	price, ok := ExtractLowestPrice(resultsPage)
	require.True(t, ok)
	require.Equal(t, 14, price)
}
