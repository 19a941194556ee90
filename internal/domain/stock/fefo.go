package stock

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// AllocationLine is one slice of an allocation plan taken from a single
// bin content.
type AllocationLine struct {
	BinContentID  uuid.UUID       // content record the quantity comes from
	BinID         uuid.UUID       // bin holding the content
	BatchNumber   string          // batch number for display
	Quantity      decimal.Decimal // quantity taken from this content
	UseByDate     time.Time       // use-by date of the batch
	FullyConsumed bool            // true when the content's available stock is exhausted
}

// AllocationPlan is the result of a FEFO allocation run
type AllocationPlan struct {
	Lines             []AllocationLine
	TotalAllocated    decimal.Decimal
	RemainingQuantity decimal.Decimal // demand that could not be covered
	FullyFulfilled    bool
}

// IsPartial reports whether only part of the demand was covered
func (p *AllocationPlan) IsPartial() bool {
	return !p.FullyFulfilled && p.TotalAllocated.GreaterThan(decimal.Zero)
}

// FefoSelector chooses bin contents in first-expire-first-out order.
// Candidates are ordered by use-by date, then batch number, then the
// timestamp the stock was received.
type FefoSelector struct {
	now func() time.Time
}

// NewFefoSelector creates a selector using the wall clock
func NewFefoSelector() *FefoSelector {
	return &FefoSelector{now: time.Now}
}

// NewFefoSelectorAt creates a selector with a fixed clock, for tests and
// retroactive checks
func NewFefoSelectorAt(now func() time.Time) *FefoSelector {
	return &FefoSelector{now: now}
}

// Rank orders allocatable candidates by the FEFO sort key. Expired,
// scrapped, depleted and fully reserved contents are filtered out.
func (s *FefoSelector) Rank(candidates []BinContent) []BinContent {
	asOf := s.now()
	ranked := make([]BinContent, 0, len(candidates))
	for _, c := range candidates {
		if c.IsAllocatable(asOf) {
			ranked = append(ranked, c)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].UseByDate.Equal(ranked[j].UseByDate) {
			return ranked[i].UseByDate.Before(ranked[j].UseByDate)
		}
		if ranked[i].BatchNumber != ranked[j].BatchNumber {
			return ranked[i].BatchNumber < ranked[j].BatchNumber
		}
		return ranked[i].ReceivedAt.Before(ranked[j].ReceivedAt)
	})
	return ranked
}

// Allocate greedily covers the requested quantity from candidates in FEFO
// order. Partial coverage is allowed; when nothing at all is allocatable
// the call fails with INSUFFICIENT_AVAILABLE.
func (s *FefoSelector) Allocate(candidates []BinContent, requested decimal.Decimal) (*AllocationPlan, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}

	ranked := s.Rank(candidates)
	if len(ranked) == 0 {
		return nil, shared.ErrInsufficientAvailable
	}

	lines := make([]AllocationLine, 0, len(ranked))
	remaining := requested
	total := decimal.Zero

	for _, c := range ranked {
		if remaining.IsZero() {
			break
		}
		available := c.AvailableQuantity()
		take := decimal.Min(remaining, available)
		lines = append(lines, AllocationLine{
			BinContentID:  c.ID,
			BinID:         c.BinID,
			BatchNumber:   c.BatchNumber,
			Quantity:      take,
			UseByDate:     c.UseByDate,
			FullyConsumed: take.Equal(available),
		})
		total = total.Add(take)
		remaining = remaining.Sub(take)
	}

	return &AllocationPlan{
		Lines:             lines,
		TotalAllocated:    total,
		RemainingQuantity: remaining,
		FullyFulfilled:    remaining.IsZero(),
	}, nil
}

// IsCompliant reports whether issuing from the given content respects FEFO
// order among the candidates. The content itself is always a candidate;
// issuing is compliant when no other allocatable content sorts strictly
// before it.
func (s *FefoSelector) IsCompliant(content *BinContent, candidates []BinContent) bool {
	ranked := s.Rank(candidates)
	if len(ranked) == 0 {
		return true
	}
	head := ranked[0]
	if head.ID == content.ID {
		return true
	}
	// Contents sharing the full sort key with the head are interchangeable.
	return head.UseByDate.Equal(content.UseByDate) &&
		head.BatchNumber == content.BatchNumber &&
		head.ReceivedAt.Equal(content.ReceivedAt)
}
