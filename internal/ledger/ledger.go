package ledger

import (
	"strings"
	"time"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/models"
)

// State is the whole ledger: the ordered holdings and the conversion rates.
// The slice order is significant and only changes through Add, Delete, Move
// and Import.
type State struct {
	Holdings []models.Holding
	Rates    models.Rates
	// LastID is the highest id ever issued, so ids of deleted holdings are
	// never handed out again during the process lifetime.
	LastID int64
}

// NewState returns a state over holdings with the given rates.
func NewState(holdings []models.Holding, rates models.Rates) State {
	s := State{Holdings: holdings, Rates: rates}
	s.LastID = maxID(holdings)
	return s
}

// Mode is the entry context of a new holding.
type Mode string

const (
	ModeGlobal Mode = "global"
	ModeCrypto Mode = "crypto"
	ModeStocks Mode = "stocks"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeGlobal || m == ModeCrypto || m == ModeStocks
}

// Draft is the raw user input of a holding not yet added. Numeric fields
// carry the typed text and are parsed on Add.
type Draft struct {
	Name           string          `json:"name"`
	Account        string          `json:"account"`
	Category       models.Category `json:"category" binding:"omitempty,category"`
	AmountInvested NumberText      `json:"amountInvested"`
	CurrentValue   NumberText      `json:"currentValue"`
	Currency       models.Currency `json:"currency" binding:"omitempty,currency"`
	Quantity       NumberText      `json:"quantity"`
	AvgBuyPrice    NumberText      `json:"avgBuyPrice"`
	PRUCurrency    models.Currency `json:"pruCurrency" binding:"omitempty,pru_currency"`
	CoingeckoID    string          `json:"coingeckoId"`
	StockTicker    string          `json:"stockTicker"`
	Owner          string          `json:"owner"`
}

// Reset clears the per-holding fields and keeps the sticky selections
// (category, currency, pruCurrency, owner) for the next entry.
func (d Draft) Reset() Draft {
	return Draft{
		Category:    d.Category,
		Currency:    d.Currency,
		PRUCurrency: d.PRUCurrency,
		Owner:       d.Owner,
	}
}

// Add validates and appends a new holding built from d. It returns the new
// state, the created holding and the reset draft. A blank name is rejected
// with ErrNameRequired and the state is returned unchanged.
func Add(s State, d Draft, mode Mode, now time.Time) (State, models.Holding, Draft, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return s, models.Holding{}, d, apperrors.ErrNameRequired
	}

	category := d.Category
	switch mode {
	case ModeCrypto:
		category = models.CategoryCrypto
	case ModeStocks:
		category = models.CategoryStocks
	}
	if category == "" {
		category = models.CategoryLiquidities
	}
	currency := d.Currency
	if currency == "" {
		currency = models.CurrencyEUR
	}
	pru := d.PRUCurrency
	if pru == "" {
		pru = models.CurrencyEUR
	}

	quantity := parseOptional(string(d.Quantity))
	avgBuyPrice := parseOptional(string(d.AvgBuyPrice))
	invested := parseOrZero(string(d.AmountInvested))
	if category == models.CategoryCrypto && isSet(quantity) && isSet(avgBuyPrice) {
		invested = product(*quantity, *avgBuyPrice, fx(pru, s.Rates))
	}

	h := models.Holding{
		Name:           name,
		Account:        strings.TrimSpace(d.Account),
		Category:       category,
		AmountInvested: invested,
		CurrentValue:   parseOrZero(string(d.CurrentValue)),
		Currency:       currency,
		Quantity:       quantity,
		AvgBuyPrice:    avgBuyPrice,
		PRUCurrency:    pru,
		Owner:          strings.TrimSpace(d.Owner),
	}
	switch category {
	case models.CategoryCrypto:
		id := strings.TrimSpace(d.CoingeckoID)
		if id == "" {
			id = GuessCoingeckoID(name)
		}
		if id != "" {
			h.CoingeckoID = &id
		}
	case models.CategoryStocks:
		ticker := strings.TrimSpace(d.StockTicker)
		h.StockTicker = &ticker
	}

	next := s.clone()
	h.ID = next.nextID(now)
	next.Holdings = append(next.Holdings, h)
	return next, h, d.Reset(), nil
}

// Delete removes the holding with the given id. Deletion is destructive and
// must be confirmed.
func Delete(s State, id int64, confirmed bool) (State, error) {
	if !confirmed {
		return s, apperrors.ErrConfirmationRequired
	}
	idx := indexOf(s.Holdings, id)
	if idx < 0 {
		return s, apperrors.ErrHoldingNotFound
	}
	next := s.clone()
	next.Holdings = append(next.Holdings[:idx], next.Holdings[idx+1:]...)
	return next, nil
}

// Direction is the way Move shifts a holding.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Move swaps the holding with its neighbour in the stored order. It is a no-op
// at the boundaries, for unknown ids and while a sort is active, since the
// displayed order then no longer matches the stored one.
func Move(s State, id int64, dir Direction, sort SortState) State {
	if sort.Active() {
		return s
	}
	idx := indexOf(s.Holdings, id)
	if idx < 0 {
		return s
	}
	var target int
	switch dir {
	case Up:
		target = idx - 1
	case Down:
		target = idx + 1
	default:
		return s
	}
	if target < 0 || target >= len(s.Holdings) {
		return s
	}
	next := s.clone()
	next.Holdings[idx], next.Holdings[target] = next.Holdings[target], next.Holdings[idx]
	return next
}

// Find returns the holding with the given id.
func Find(s State, id int64) (models.Holding, bool) {
	idx := indexOf(s.Holdings, id)
	if idx < 0 {
		return models.Holding{}, false
	}
	return s.Holdings[idx], true
}

// WithRates returns s with new conversion rates. Holdings are not recomputed.
func WithRates(s State, rates models.Rates) State {
	next := s.clone()
	next.Rates = rates
	return next
}

// clone copies the holdings slice header and elements. Pointer fields are
// shared; operations replace pointers and never write through them.
func (s State) clone() State {
	next := s
	next.Holdings = make([]models.Holding, len(s.Holdings), len(s.Holdings)+1)
	copy(next.Holdings, s.Holdings)
	return next
}

// nextID issues a millisecond timestamp id, bumped past every id already
// issued or present so two adds within the same millisecond stay distinct.
func (s *State) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if m := maxID(s.Holdings); m > s.LastID {
		s.LastID = m
	}
	if id <= s.LastID {
		id = s.LastID + 1
	}
	s.LastID = id
	return id
}

func maxID(hs []models.Holding) int64 {
	var m int64
	for _, h := range hs {
		if h.ID > m {
			m = h.ID
		}
	}
	return m
}

func indexOf(hs []models.Holding, id int64) int {
	for i := range hs {
		if hs[i].ID == id {
			return i
		}
	}
	return -1
}

// fx is the factor that turns an average buy price into euros.
func fx(pru models.Currency, rates models.Rates) float64 {
	if pru == models.CurrencyUSDT {
		return rates.EurUsdtRate
	}
	return 1
}
