package calculation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/domain"
)

// DefaultMemoEntries is the cache size used when NewMemo is given a non-positive limit.
const DefaultMemoEntries = 1024

type memoEntry struct {
	records []domain.YearlyRecord
	summary domain.ProjectionSummary
}

// Memo caches projections of an underlying Projector. Only inputs that
// affect the numbers take part in the key, so renaming a scenario still hits.
type Memo struct {
	next       Projector
	maxEntries int

	mu      sync.RWMutex
	entries map[string]memoEntry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewMemo wraps next with a cache holding at most maxEntries projections.
func NewMemo(next Projector, maxEntries int) *Memo {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoEntries
	}
	return &Memo{
		next:       next,
		maxEntries: maxEntries,
		entries:    make(map[string]memoEntry),
	}
}

// memoKeyFields is the canonical form hashed into a cache key.
type memoKeyFields struct {
	Category            string `json:"category"`
	AnnualReturnRate    string `json:"annual_return_rate"`
	InflationRate       string `json:"inflation_rate"`
	StartingPrincipal   string `json:"starting_principal"`
	MonthlyContribution string `json:"monthly_contribution"`
	Years               int    `json:"years"`
}

// MemoKey returns the cache key for a scenario and request.
func MemoKey(s domain.Scenario, req domain.ProjectionRequest) (string, error) {
	b, err := json.Marshal(memoKeyFields{
		Category:            string(s.Category),
		AnnualReturnRate:    s.AnnualReturnRate.String(),
		InflationRate:       s.InflationRate.String(),
		StartingPrincipal:   req.StartingPrincipal.String(),
		MonthlyContribution: req.MonthlyContribution.String(),
		Years:               req.Years,
	})
	if err != nil {
		return "", fmt.Errorf("encode memo key: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Project returns a cached projection or computes and stores one.
// Failed projections are not cached.
func (m *Memo) Project(s domain.Scenario, req domain.ProjectionRequest) ([]domain.YearlyRecord, domain.ProjectionSummary, error) {
	key, err := MemoKey(s, req)
	if err != nil {
		return nil, domain.ProjectionSummary{}, err
	}

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		m.hits.Add(1)
		return cloneRecords(e.records), e.summary, nil
	}
	m.misses.Add(1)

	records, summary, err := m.next.Project(s, req)
	if err != nil {
		return nil, domain.ProjectionSummary{}, err
	}

	m.mu.Lock()
	if len(m.entries) >= m.maxEntries {
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}
	m.entries[key] = memoEntry{records: cloneRecords(records), summary: summary}
	m.mu.Unlock()

	return records, summary, nil
}

func (m *Memo) ValidateScenario(s domain.Scenario) error { return m.next.ValidateScenario(s) }

func (m *Memo) ValidateRequest(req domain.ProjectionRequest) error { return m.next.ValidateRequest(req) }

// Len reports the number of cached projections.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Purge drops every cached projection.
func (m *Memo) Purge() {
	m.mu.Lock()
	m.entries = make(map[string]memoEntry)
	m.mu.Unlock()
}

// Stats reports cache hits and misses since creation.
func (m *Memo) Stats() (hits, misses uint64) {
	return m.hits.Load(), m.misses.Load()
}

func cloneRecords(in []domain.YearlyRecord) []domain.YearlyRecord {
	out := make([]domain.YearlyRecord, len(in))
	copy(out, in)
	return out
}
