package lock

import (
	"testing"
)

func TestNewLockID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"Valid ID", "generate:2026-10", false},
		{"Valid UUID", "550e8400-e29b-41d4-a716-446655440000", false},
		{"Empty ID", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewLockID(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLockID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && id.String() != tt.value {
				t.Errorf("Expected ID %s, got %s", tt.value, id.String())
			}
		})
	}
}

func TestGenerationLockID(t *testing.T) {
	id, err := GenerationLockID("2026-10")
	if err != nil {
		t.Fatalf("GenerationLockID() unexpected error: %v", err)
	}
	if id.String() != "generate:2026-10" {
		t.Errorf("String() = %v, want generate:2026-10", id.String())
	}

	other, _ := GenerationLockID("2026-11")
	if id.Equals(other) {
		t.Error("locks for different periods must differ")
	}

	if _, err := GenerationLockID(""); err == nil {
		t.Error("GenerationLockID(\"\") should return error")
	}
}

func TestErrLockNotFound(t *testing.T) {
	if ErrLockNotFound.Error() != "lock not found" {
		t.Errorf("ErrLockNotFound.Error() = %v", ErrLockNotFound.Error())
	}
}

func TestParseLockID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		period  string
		wantErr bool
	}{
		{"generate:2026-10", "generate:2026-10", "2026-10", false},
		{"2026-10", "generate:2026-10", "2026-10", false},
		{" 2026-09 ", "generate:2026-09", "2026-09", false},
		{"maintenance:ledger", "maintenance:ledger", "", false},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, err := ParseLockID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLockID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if id.String() != tt.want {
				t.Errorf("ParseLockID(%q) = %s, want %s", tt.in, id, tt.want)
			}
			period, ok := id.Period()
			if ok != (tt.period != "") || period != tt.period {
				t.Errorf("Period() = %q, %v, want %q", period, ok, tt.period)
			}
		})
	}
}
