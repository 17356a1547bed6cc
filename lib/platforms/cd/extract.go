package cd

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// fares are quoted in hellers
	hellersPerCrown = 100
	// fixed CZK per EUR rate the report is converted with
	crownsPerEuro = 25.59
)

// the result page embeds offers as loose json fragments, a price is
// whatever sits between `"price":` and the next comma.
var priceRegex = regexp.MustCompile(`"price":(.*?),`)

// ConvertPrice converts a raw heller amount into whole euros. the
// division by 100 is truncated before the exchange rate is applied.
func ConvertPrice(hellers int) int {
	crowns := hellers / hellersPerCrown
	return int(float64(crowns) / crownsPerEuro)
}

// ExtractPrices returns every convertible price fragment in `body`, in
// order of appearance. fragments that aren't integers are skipped.
func ExtractPrices(body string) []int {
	var prices []int
	for _, match := range priceRegex.FindAllStringSubmatch(body, -1) {
		hellers, err := strconv.Atoi(strings.TrimSpace(match[1]))
		if err != nil {
			continue
		}
		prices = append(prices, ConvertPrice(hellers))
	}
	return prices
}

// ExtractLowestPrice returns the lowest positive converted price in
// `body`, ok is false when there is none.
func ExtractLowestPrice(body string) (price int, ok bool) {
	for _, p := range ExtractPrices(body) {
		if p <= 0 {
			continue
		}
		if !ok || p < price {
			price = p
			ok = true
		}
	}
	return price, ok
}
