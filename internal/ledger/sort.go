package ledger

import (
	"sort"
	"strconv"
	"strings"

	"patrimony/internal/models"
)

// SortKey is a holding attribute the view can be ordered by.
type SortKey string

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{
	"name", "account", "category", "currency", "amountInvested", "currentValue",
	"quantity", "avgBuyPrice", "livePrice", "pruCurrency", "coingeckoId", "stockTicker", "owner",
}

// Valid reports whether k is an accepted sort key.
func (k SortKey) Valid() bool {
	for _, key := range SortKeys {
		if key == k {
			return true
		}
	}
	return false
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortState is the view ordering. The zero value means stored order.
type SortState struct {
	Key       SortKey       `json:"key,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Active reports whether a sort is applied to the view.
func (s SortState) Active() bool { return s.Key != "" }

// Toggle flips the direction when key is already the sort key and otherwise
// sorts ascending on key.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Direction == Ascending {
			return SortState{Key: key, Direction: Descending}
		}
		return SortState{Key: key, Direction: Ascending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// Clear returns the stored-order state.
func (s SortState) Clear() SortState { return SortState{} }

// Sorted returns a sorted copy of hs. Values are compared as lower-cased
// strings, numbers included, and ties keep their stored order.
func Sorted(hs []models.Holding, s SortState) []models.Holding {
	out := make([]models.Holding, len(hs))
	copy(out, hs)
	if !s.Active() {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := projection(out[i], s.Key), projection(out[j], s.Key)
		if s.Direction == Descending {
			return a > b
		}
		return a < b
	})
	return out
}

// Filter returns the holdings of one scope in stored order.
func Filter(hs []models.Holding, scope models.Scope) []models.Holding {
	out := make([]models.Holding, 0, len(hs))
	for _, h := range hs {
		if scope.Contains(h.Category) {
			out = append(out, h)
		}
	}
	return out
}

func projection(h models.Holding, key SortKey) string {
	var v string
	switch key {
	case "name":
		v = h.Name
	case "account":
		v = h.Account
	case "category":
		v = string(h.Category)
	case "currency":
		v = string(h.Currency)
	case "amountInvested":
		v = formatNumber(h.AmountInvested)
	case "currentValue":
		v = formatNumber(h.CurrentValue)
	case "quantity":
		v = formatOptional(h.Quantity)
	case "avgBuyPrice":
		v = formatOptional(h.AvgBuyPrice)
	case "livePrice":
		v = formatOptional(h.LivePrice)
	case "pruCurrency":
		v = string(h.PRUCurrency)
	case "coingeckoId":
		if h.CoingeckoID != nil {
			v = *h.CoingeckoID
		}
	case "stockTicker":
		if h.StockTicker != nil {
			v = *h.StockTicker
		}
	case "owner":
		v = h.Owner
	}
	return strings.ToLower(v)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatNumber(*f)
}
