package reconcile

import (
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
)

// DedupIndex is the set of source keys already billed in one billing period.
// It is owned by a single invocation and is not safe for concurrent use.
type DedupIndex struct {
	keys map[string]struct{}
}

// NewDedupIndex builds the index from the ledger records of a period
func NewDedupIndex(records []*expense.ExpenseRecord) *DedupIndex {
	ix := &DedupIndex{keys: make(map[string]struct{}, len(records))}
	for _, r := range records {
		ix.Add(r.SourceKey())
	}
	return ix
}

// Contains reports whether key has been billed
func (ix *DedupIndex) Contains(key string) bool {
	_, ok := ix.keys[key]
	return ok
}

// Add marks key as billed
func (ix *DedupIndex) Add(key string) {
	ix.keys[key] = struct{}{}
}

// Len returns the number of billed keys
func (ix *DedupIndex) Len() int {
	return len(ix.keys)
}

// MatchResult is the outcome of matching one candidate against the index
type MatchResult int

const (
	MatchBillable MatchResult = iota
	MatchAlreadyBilled
	MatchNotFinished
	MatchNoHours
)

// String returns the string representation
func (m MatchResult) String() string {
	switch m {
	case MatchBillable:
		return "billable"
	case MatchAlreadyBilled:
		return "already-billed"
	case MatchNotFinished:
		return "not-finished"
	case MatchNoHours:
		return "no-hours"
	default:
		return "unknown"
	}
}

// Match decides whether item should be billed. It has no side effects;
// the caller adds the key to the index once the record is persisted.
func Match(item *workitem.WorkItem, index *DedupIndex) MatchResult {
	switch {
	case index.Contains(item.DedupKey()):
		return MatchAlreadyBilled
	case !item.IsFinished():
		return MatchNotFinished
	case !item.HasHours():
		return MatchNoHours
	default:
		return MatchBillable
	}
}
