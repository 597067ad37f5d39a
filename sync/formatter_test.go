package sync_test

import (
	"strings"
	"testing"

	"github.com/refkit/tablesync/sync"
	"github.com/refkit/tablesync/tableapi"
)

func row(primary []tableapi.PrimaryValue, attrs ...tableapi.AttributeValue) tableapi.RowSpec {
	return tableapi.RowSpec{PrimaryValues: primary, Attributes: attrs}
}

var testPrimary = []tableapi.PrimaryValue{{AttributeName: "id", Value: "row-1"}}

func TestFormat_TextListFromDelimitedString(t *testing.T) {
	values, failures := sync.Format(
		[]tableapi.RowSpec{row(testPrimary, tableapi.AttributeValue{AttributeName: "regions", Value: "a,b,c"})},
		map[string]tableapi.ValueType{"regions": tableapi.ValueTypeTextList},
		tableapi.LockVersions{},
	)

	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	if values[0].Value != `["a","b","c"]` {
		t.Errorf("expected three-element list, got %q", values[0].Value)
	}
}

func TestFormat_TextListPassThrough(t *testing.T) {
	values, failures := sync.Format(
		[]tableapi.RowSpec{row(testPrimary, tableapi.AttributeValue{AttributeName: "regions", Value: []any{"x", "y"}})},
		map[string]tableapi.ValueType{"regions": tableapi.ValueTypeTextList},
		tableapi.LockVersions{},
	)

	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if values[0].Value != `["x","y"]` {
		t.Errorf("expected structured list pass-through, got %q", values[0].Value)
	}
}

func TestFormat_NumberList(t *testing.T) {
	values, failures := sync.Format(
		[]tableapi.RowSpec{row(testPrimary, tableapi.AttributeValue{AttributeName: "scores", Value: "1, 2.5, 3"})},
		map[string]tableapi.ValueType{"scores": tableapi.ValueTypeNumberList},
		tableapi.LockVersions{},
	)

	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if values[0].Value != `[1,2.5,3]` {
		t.Errorf("expected parsed number list, got %q", values[0].Value)
	}
}

func TestFormat_NumberListBadToken(t *testing.T) {
	values, failures := sync.Format(
		[]tableapi.RowSpec{row(testPrimary, tableapi.AttributeValue{AttributeName: "scores", Value: "1, abc, 3"})},
		map[string]tableapi.ValueType{"scores": tableapi.ValueTypeNumberList},
		tableapi.LockVersions{},
	)

	if len(values) != 0 {
		t.Fatalf("expected no values, got %d", len(values))
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].AttributeName != "scores" {
		t.Errorf("expected failure on 'scores', got %q", failures[0].AttributeName)
	}
	if !strings.Contains(failures[0].Err.Error(), `"abc"`) {
		t.Errorf("expected failure to identify the bad token, got %v", failures[0].Err)
	}
}

func TestFormat_FailureDoesNotAbortOtherEntries(t *testing.T) {
	values, failures := sync.Format(
		[]tableapi.RowSpec{row(testPrimary,
			tableapi.AttributeValue{AttributeName: "scores", Value: "not-a-number"},
			tableapi.AttributeValue{AttributeName: "tier", Value: "gold"},
		)},
		map[string]tableapi.ValueType{
			"scores": tableapi.ValueTypeNumberList,
			"tier":   tableapi.ValueTypeText,
		},
		tableapi.LockVersions{},
	)

	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if len(values) != 1 || values[0].AttributeName != "tier" {
		t.Fatalf("expected the remaining entry to be formatted, got %+v", values)
	}
}

func TestFormat_ScalarPassThrough(t *testing.T) {
	tests := []struct {
		name      string
		raw       any
		valueType tableapi.ValueType
		expected  string
	}{
		{"text", "hello", tableapi.ValueTypeText, "hello"},
		{"integral number", float64(7), tableapi.ValueTypeNumber, "7"},
		{"fractional number", 42.5, tableapi.ValueTypeNumber, "42.5"},
		{"boolean", true, tableapi.ValueTypeBoolean, "true"},
		{"undeclared type", "raw", "", "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, failures := sync.Format(
				[]tableapi.RowSpec{row(testPrimary, tableapi.AttributeValue{AttributeName: "attr", Value: tt.raw})},
				map[string]tableapi.ValueType{"attr": tt.valueType},
				tableapi.LockVersions{},
			)
			if len(failures) != 0 {
				t.Fatalf("unexpected failures: %v", failures)
			}
			if values[0].Value != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, values[0].Value)
			}
		})
	}
}

func TestFormat_StampsLockVersions(t *testing.T) {
	values, _ := sync.Format(
		[]tableapi.RowSpec{row(testPrimary,
			tableapi.AttributeValue{AttributeName: "tier", Value: "gold"},
			tableapi.AttributeValue{AttributeName: "unknown", Value: "x"},
		)},
		map[string]tableapi.ValueType{"tier": tableapi.ValueTypeText},
		tableapi.LockVersions{"tier": "7"},
	)

	if values[0].LockVersion != "7" {
		t.Errorf("expected lock version 7, got %q", values[0].LockVersion)
	}
	// An attribute absent from the lock map gets the zero token.
	if values[1].LockVersion != "" {
		t.Errorf("expected zero token, got %q", values[1].LockVersion)
	}
}

func TestFormat_OneValuePerAttributeEntry(t *testing.T) {
	rows := []tableapi.RowSpec{
		row([]tableapi.PrimaryValue{{AttributeName: "id", Value: "a"}},
			tableapi.AttributeValue{AttributeName: "tier", Value: "gold"},
			tableapi.AttributeValue{AttributeName: "limit", Value: float64(10)},
		),
		row([]tableapi.PrimaryValue{{AttributeName: "id", Value: "b"}},
			tableapi.AttributeValue{AttributeName: "tier", Value: "silver"},
		),
	}

	values, failures := sync.Format(rows, map[string]tableapi.ValueType{
		"tier":  tableapi.ValueTypeText,
		"limit": tableapi.ValueTypeNumber,
	}, tableapi.LockVersions{})

	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[2].PrimaryValues[0].Value != "b" {
		t.Errorf("expected row order preserved, got %+v", values[2].PrimaryValues)
	}
}
