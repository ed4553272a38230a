package dto

import (
	"encoding/json"
	"time"
)

// LedgerListing is the content of the ledger for one billing period
type LedgerListing struct {
	Period  string       `json:"period"`
	Records []ExpenseDTO `json:"records"`
	Total   float64      `json:"total"`
}

// ReportInfo describes one archived report
type ReportInfo struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	Kind        string    `json:"kind"`
	Period      string    `json:"period,omitempty"`
	StoragePath string    `json:"storagePath"`
	Size        int64     `json:"size"`
	ArchivedAt  time.Time `json:"archivedAt"`
}

// ReportDocument is an archived report with its original JSON body
type ReportDocument struct {
	Info    ReportInfo      `json:"info"`
	Content json.RawMessage `json:"content"`
}

// RateGeneration is the outcome of saving a rate and billing the person right away.
// Generation is nil when the run failed.
type RateGeneration struct {
	Rate       RateDTO         `json:"rate"`
	Generation *GenerateReport `json:"generation,omitempty"`
}
