package probe

import (
	"errors"
	"testing"
	"time"

	"github.com/alorle/livetv-collector/internal/channel"
)

func testRecord(t *testing.T) channel.Record {
	t.Helper()
	r, err := channel.NewRecord("Rai 1", "http://x/live1", "General", "", "", 0)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return r
}

func TestNewResult(t *testing.T) {
	now := time.Now()
	rec := testRecord(t)

	tests := []struct {
		name          string
		active        bool
		checkedAt     time.Time
		failureReason string
		statusCode    int
		latency       time.Duration
		wantError     error
		wantReason    string
	}{
		{
			name:       "valid active probe",
			active:     true,
			checkedAt:  now,
			statusCode: 200,
			latency:    120 * time.Millisecond,
		},
		{
			name:          "valid inactive probe",
			active:        false,
			checkedAt:     now,
			failureReason: ReasonTimeout,
			wantReason:    ReasonTimeout,
		},
		{
			name:          "failure reason is trimmed",
			active:        false,
			checkedAt:     now,
			failureReason: "  status 404 ",
			statusCode:    404,
			wantReason:    "status 404",
		},
		{
			name:      "zero timestamp",
			active:    true,
			checkedAt: time.Time{},
			wantError: ErrInvalidTimestamp,
		},
		{
			name:      "inactive without reason",
			active:    false,
			checkedAt: now,
			wantError: ErrMissingFailureReason,
		},
		{
			name:          "inactive with whitespace reason",
			active:        false,
			checkedAt:     now,
			failureReason: "   ",
			wantError:     ErrMissingFailureReason,
		},
		{
			name:          "active with reason",
			active:        true,
			checkedAt:     now,
			failureReason: "timeout",
			wantError:     ErrUnexpectedFailureReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewResult(rec, tt.active, tt.checkedAt, tt.failureReason, tt.statusCode, tt.latency)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("expected error %v, got %v", tt.wantError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Record() != rec {
				t.Errorf("Record() = %+v, want %+v", result.Record(), rec)
			}
			if result.Active() != tt.active {
				t.Errorf("Active() = %v, want %v", result.Active(), tt.active)
			}
			if !result.CheckedAt().Equal(tt.checkedAt) {
				t.Errorf("CheckedAt() = %v, want %v", result.CheckedAt(), tt.checkedAt)
			}
			if result.FailureReason() != tt.wantReason {
				t.Errorf("FailureReason() = %q, want %q", result.FailureReason(), tt.wantReason)
			}
			if result.StatusCode() != tt.statusCode {
				t.Errorf("StatusCode() = %d, want %d", result.StatusCode(), tt.statusCode)
			}
			if result.Latency() != tt.latency {
				t.Errorf("Latency() = %v, want %v", result.Latency(), tt.latency)
			}
		})
	}
}
