package tableapi_test

import (
	"testing"

	"github.com/refkit/tablesync/tableapi"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected tableapi.FailureClass
	}{
		{"missing", "Value not found: region=ca/tier", tableapi.FailureMissing},
		{"conflict", `Concurrency conflict: stale lock version for attribute "tier"`, tableapi.FailureConflict},
		{"exists", "Value already exists: region=ca/tier", tableapi.FailureExists},
		{"validation", "validation failed: value exceeds maximum length", tableapi.FailureTerminal},
		{"empty", "", tableapi.FailureTerminal},
		{"embedded missing", "update rejected (Value not found)", tableapi.FailureMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tableapi.ClassifyFailure(tt.message); got != tt.expected {
				t.Errorf("ClassifyFailure(%q) = %v, expected %v", tt.message, got, tt.expected)
			}
		})
	}
}

func TestFailureClassString(t *testing.T) {
	tests := []struct {
		class    tableapi.FailureClass
		expected string
	}{
		{tableapi.FailureMissing, "missing"},
		{tableapi.FailureConflict, "conflict"},
		{tableapi.FailureExists, "exists"},
		{tableapi.FailureTerminal, "terminal"},
	}
	for _, tt := range tests {
		if got := tt.class.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}
