package services

import (
	"context"
	"sync"
	"time"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/ledger"
	"patrimony/internal/logger"
	"patrimony/internal/models"
)

// ledgerService holds the in-memory ledger and persists it after every
// mutation. All writes go through mu.
type ledgerService struct {
	mu    sync.RWMutex
	state ledger.State
	sort  ledger.SortState
	store LedgerPersister
	owner string
	now   func() time.Time
}

// NewLedgerService restores the ledger from store. Unreadable holdings are
// logged and the ledger starts empty; missing rates fall back to rates.
func NewLedgerService(ctx context.Context, store LedgerPersister, rates models.Rates, owner string) LedgerServicer {
	log := logger.Get()

	holdings, err := store.LoadHoldings(ctx)
	if err != nil {
		log.Errorw("failed to load holdings, starting with an empty ledger", "error", err)
		holdings = nil
	}

	stored, found, err := store.LoadRates(ctx)
	switch {
	case err != nil:
		log.Errorw("failed to load rates, using defaults", "error", err)
	case found && stored.EurUsdtRate > 0 && stored.ChfEurRate > 0:
		rates = stored
	}

	log.Infow("ledger loaded", "holdings", len(holdings), "eur_usdt_rate", rates.EurUsdtRate, "chf_eur_rate", rates.ChfEurRate)

	return &ledgerService{
		state: ledger.NewState(holdings, rates),
		store: store,
		owner: owner,
		now:   time.Now,
	}
}

// List returns the holdings in view order.
func (s *ledgerService) List(scope models.Scope) []models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hs := ledger.Sorted(s.state.Holdings, s.sort)
	if scope != "" {
		hs = ledger.Filter(hs, scope)
	}
	return models.CloneHoldings(hs)
}

func (s *ledgerService) Holdings() []models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneHoldings(s.state.Holdings)
}

// Get returns a single holding by id.
func (s *ledgerService) Get(id int64) (*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := ledger.Find(s.state, id)
	if !ok {
		return nil, apperrors.ErrHoldingNotFound
	}
	c := h.Clone()
	return &c, nil
}

// Add appends a holding built from draft and returns it with the reset draft.
func (s *ledgerService) Add(ctx context.Context, draft ledger.Draft, mode ledger.Mode) (*models.Holding, ledger.Draft, error) {
	if draft.Owner == "" {
		draft.Owner = s.owner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, h, reset, err := ledger.Add(s.state, draft, mode, s.now())
	if err != nil {
		return nil, draft, err
	}
	s.state = next
	s.saveHoldings(ctx)
	return &h, reset, nil
}

// UpdateField edits one field of a holding and returns the updated holding.
func (s *ledgerService) UpdateField(ctx context.Context, id int64, field ledger.Field, value string) (*models.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := ledger.Find(s.state, id); !ok {
		return nil, apperrors.ErrHoldingNotFound
	}
	next, err := ledger.UpdateField(s.state, id, field, value)
	if err != nil {
		return nil, err
	}
	s.state = next
	s.saveHoldings(ctx)

	h, _ := ledger.Find(s.state, id)
	c := h.Clone()
	return &c, nil
}

// Delete removes a holding once confirmed and returns what was removed.
func (s *ledgerService) Delete(ctx context.Context, id int64, confirmed bool) (*models.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := ledger.Find(s.state, id)
	if !ok {
		return nil, apperrors.ErrHoldingNotFound
	}
	next, err := ledger.Delete(s.state, id, confirmed)
	if err != nil {
		return nil, err
	}
	s.state = next
	s.saveHoldings(ctx)
	return &h, nil
}

// Move swaps a holding with its neighbour. moved is false when the move was
// a no-op.
func (s *ledgerService) Move(ctx context.Context, id int64, dir ledger.Direction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := indexOf(s.state.Holdings, id)
	if before < 0 {
		return false, apperrors.ErrHoldingNotFound
	}
	s.state = ledger.Move(s.state, id, dir, s.sort)
	if indexOf(s.state.Holdings, id) == before {
		return false, nil
	}
	s.saveHoldings(ctx)
	return true, nil
}

func (s *ledgerService) Sort() ledger.SortState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

// ToggleSort applies the sort toggle rules for key.
func (s *ledgerService) ToggleSort(key ledger.SortKey) ledger.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Toggle(key)
	return s.sort
}

func (s *ledgerService) ClearSort() ledger.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Clear()
	return s.sort
}

// Summary aggregates every scope of the ledger.
func (s *ledgerService) Summary() ledger.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.Summarize(s.state.Holdings, s.state.Rates)
}

// LineMetrics returns the per-holding profit in view order.
func (s *ledgerService) LineMetrics() []ledger.LineMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.LineMetrics(ledger.Sorted(s.state.Holdings, s.sort))
}

func (s *ledgerService) Rates() models.Rates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Rates
}

// SetRates replaces the conversion rates. Existing holdings keep their
// derived values until they are edited again.
func (s *ledgerService) SetRates(ctx context.Context, rates models.Rates) models.Rates {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = ledger.WithRates(s.state, rates)
	if err := s.store.SaveRates(context.WithoutCancel(ctx), rates); err != nil {
		logger.Get().Errorw("failed to persist rates", "error", err)
	}
	return rates
}

// Import replaces every holding once confirmed.
func (s *ledgerService) Import(ctx context.Context, holdings []models.Holding, confirmed bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := ledger.Import(s.state, holdings, confirmed)
	if err != nil {
		return 0, err
	}
	s.state = next
	s.saveHoldings(ctx)
	return len(next.Holdings), nil
}

// ApplyCryptoPrices merges fetched prices into the current state.
func (s *ledgerService) ApplyCryptoPrices(ctx context.Context, prices map[string]float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, updated := ledger.ApplyCryptoPrices(s.state, prices)
	if updated > 0 {
		s.state = next
		s.saveHoldings(ctx)
	}
	return updated
}

// ApplyStockQuotes merges fetched quotes into the current state.
func (s *ledgerService) ApplyStockQuotes(ctx context.Context, quotes map[string]ledger.Quote) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, updated := ledger.ApplyStockQuotes(s.state, quotes)
	if updated > 0 {
		s.state = next
		s.saveHoldings(ctx)
	}
	return updated
}

// saveHoldings writes the current holdings. Failures are logged and the
// in-memory state stays authoritative. Callers hold mu.
func (s *ledgerService) saveHoldings(ctx context.Context) {
	if err := s.store.SaveHoldings(context.WithoutCancel(ctx), s.state.Holdings); err != nil {
		logger.Get().Errorw("failed to persist holdings", "error", err, "holdings", len(s.state.Holdings))
	}
}

func indexOf(hs []models.Holding, id int64) int {
	for i := range hs {
		if hs[i].ID == id {
			return i
		}
	}
	return -1
}
