package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

// generateReportID derives a unique report ID from the content hash and the current time
func generateReportID(content []byte) string {
	hash := sha256.Sum256(content)
	return fmt.Sprintf("%s-%d", hex.EncodeToString(hash[:8]), time.Now().UnixNano())
}

func validateSaveRequest(req output.SaveReportRequest) error {
	if !req.Kind.IsValid() {
		return fmt.Errorf("unknown report kind: %q", req.Kind)
	}
	if req.RunID == "" {
		return fmt.Errorf("report run ID is required")
	}
	return nil
}
