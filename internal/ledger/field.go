package ledger

import (
	"strings"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/models"
)

// Field names an editable holding attribute, using the JSON field names.
type Field string

const (
	FieldName           Field = "name"
	FieldAccount        Field = "account"
	FieldCategory       Field = "category"
	FieldAmountInvested Field = "amountInvested"
	FieldCurrentValue   Field = "currentValue"
	FieldCurrency       Field = "currency"
	FieldQuantity       Field = "quantity"
	FieldAvgBuyPrice    Field = "avgBuyPrice"
	FieldPRUCurrency    Field = "pruCurrency"
	FieldLivePrice      Field = "livePrice"
	FieldCoingeckoID    Field = "coingeckoId"
	FieldStockTicker    Field = "stockTicker"
	FieldOwner          Field = "owner"
)

// fieldRule applies raw input to one field of h, including any derived
// recomputation the field triggers.
type fieldRule func(h *models.Holding, value string, rates models.Rates)

var fieldRules = map[Field]fieldRule{
	FieldName:           func(h *models.Holding, v string, _ models.Rates) { h.Name = v },
	FieldAccount:        func(h *models.Holding, v string, _ models.Rates) { h.Account = v },
	FieldCurrency:       func(h *models.Holding, v string, _ models.Rates) { h.Currency = models.Currency(v) },
	FieldOwner:          func(h *models.Holding, v string, _ models.Rates) { h.Owner = v },
	FieldAmountInvested: func(h *models.Holding, v string, _ models.Rates) { h.AmountInvested = parseOrZero(v) },
	FieldCurrentValue:   func(h *models.Holding, v string, _ models.Rates) { h.CurrentValue = parseOrZero(v) },
	FieldCategory:       setCategory,
	FieldQuantity: func(h *models.Holding, v string, r models.Rates) {
		h.Quantity = parseOrNull(v)
		deriveInvested(h, r)
		deriveCurrentValue(h)
	},
	FieldAvgBuyPrice: func(h *models.Holding, v string, r models.Rates) {
		h.AvgBuyPrice = parseOrNull(v)
		deriveInvested(h, r)
		deriveCurrentValue(h)
	},
	FieldPRUCurrency: func(h *models.Holding, v string, r models.Rates) {
		h.PRUCurrency = models.Currency(v)
		if v == "" {
			h.PRUCurrency = models.CurrencyEUR
		}
		deriveInvested(h, r)
	},
	FieldLivePrice: func(h *models.Holding, v string, _ models.Rates) {
		h.LivePrice = parseOrNull(v)
		deriveCurrentValue(h)
	},
	FieldCoingeckoID: func(h *models.Holding, v string, _ models.Rates) {
		h.CoingeckoID = priceKey(h.Category == models.CategoryCrypto, v)
	},
	FieldStockTicker: func(h *models.Holding, v string, _ models.Rates) {
		h.StockTicker = priceKey(h.Category == models.CategoryStocks, v)
	},
}

// UpdateField applies raw input to one field of the holding with the given id.
// An unknown id leaves the state unchanged; an unknown field is rejected with
// ErrUnknownField.
func UpdateField(s State, id int64, field Field, value string) (State, error) {
	rule, ok := fieldRules[field]
	if !ok {
		return s, apperrors.ErrUnknownField
	}
	idx := indexOf(s.Holdings, id)
	if idx < 0 {
		return s, nil
	}
	next := s.clone()
	h := next.Holdings[idx]
	rule(&h, value, s.Rates)
	next.Holdings[idx] = h
	return next, nil
}

// setCategory keeps price keys only on the category they belong to.
func setCategory(h *models.Holding, v string, _ models.Rates) {
	h.Category = models.Category(v)
	if h.Category != models.CategoryCrypto {
		h.CoingeckoID = nil
	}
	if h.Category != models.CategoryStocks {
		h.StockTicker = nil
	}
}

func priceKey(allowed bool, v string) *string {
	v = strings.TrimSpace(v)
	if !allowed || v == "" {
		return nil
	}
	return &v
}

func deriveInvested(h *models.Holding, rates models.Rates) {
	if h.Category != models.CategoryCrypto || !isSet(h.Quantity) || !isSet(h.AvgBuyPrice) {
		return
	}
	h.AmountInvested = product(*h.Quantity, *h.AvgBuyPrice, fx(h.PRUCurrency, rates))
}

func deriveCurrentValue(h *models.Holding) {
	if !isSet(h.Quantity) || !isSet(h.LivePrice) {
		return
	}
	h.CurrentValue = product(*h.Quantity, *h.LivePrice)
}
