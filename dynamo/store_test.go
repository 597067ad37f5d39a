package dynamo

import (
	"context"
	"strings"
	"testing"

	"github.com/refkit/tablesync/tableapi"
)

func TestConfigDefaults(t *testing.T) {
	store := New(nil, Config{})
	if store.config.MetaTable != "tablesync_meta" {
		t.Errorf("MetaTable = %q, want %q", store.config.MetaTable, "tablesync_meta")
	}
	if store.config.ValuesTable != "tablesync_values" {
		t.Errorf("ValuesTable = %q, want %q", store.config.ValuesTable, "tablesync_values")
	}

	store = New(nil, Config{MetaTable: "meta", ValuesTable: "values"})
	if store.config.MetaTable != "meta" || store.config.ValuesTable != "values" {
		t.Errorf("explicit table names overridden: %+v", store.config)
	}
}

func TestKeyHelpers(t *testing.T) {
	if got := tablePK("abc-123"); got != "TABLE#abc-123" {
		t.Errorf("tablePK = %q", got)
	}
	if got := namePK("CustomerTypes"); got != "TABLENAME#CustomerTypes" {
		t.Errorf("namePK = %q", got)
	}
	if got := attributeSK("tier"); got != "ATTR#tier" {
		t.Errorf("attributeSK = %q", got)
	}
}

func TestValueSK(t *testing.T) {
	primary := []tableapi.PrimaryValue{
		{AttributeName: "customerId", Value: "c-1"},
		{AttributeName: "region", Value: "ca"},
	}
	reordered := []tableapi.PrimaryValue{
		{AttributeName: "region", Value: "ca"},
		{AttributeName: "customerId", Value: "c-1"},
	}

	sk := valueSK(primary, "tier")
	if sk != valueSK(reordered, "tier") {
		t.Error("value sort key depends on primary value order")
	}
	if !strings.HasSuffix(sk, "#tier") {
		t.Errorf("valueSK = %q, want %q suffix", sk, "#tier")
	}
	if sk == valueSK(primary, "status") {
		t.Error("distinct attributes map to the same sort key")
	}
}

func TestCheckLockVersion(t *testing.T) {
	state := map[string]int64{"tier": 7}

	value := func(attr string, token tableapi.LockVersion) tableapi.Value {
		return tableapi.Value{AttributeName: attr, LockVersion: token}
	}

	tests := []struct {
		name    string
		value   tableapi.Value
		ok      bool
		wantMsg string
	}{
		{"current token", value("tier", "7"), true, ""},
		{"stale token", value("tier", "6"), false, tableapi.MsgConcurrencyConflict},
		{"empty token", value("tier", ""), false, tableapi.MsgConcurrencyConflict},
		{"unknown attribute", value("ghost", "7"), false, "not defined"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := checkLockVersion(state, tc.value)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v (msg %q)", ok, tc.ok, msg)
			}
			if tc.wantMsg != "" && !strings.Contains(msg, tc.wantMsg) {
				t.Errorf("msg = %q, want substring %q", msg, tc.wantMsg)
			}
		})
	}
}

func TestCheckLockVersionMessagesClassify(t *testing.T) {
	state := map[string]int64{"tier": 3}

	msg, _ := checkLockVersion(state, tableapi.Value{AttributeName: "tier", LockVersion: "1"})
	if got := tableapi.ClassifyFailure(msg); got != tableapi.FailureConflict {
		t.Errorf("stale token classifies as %v, want conflict", got)
	}

	msg, _ = checkLockVersion(state, tableapi.Value{AttributeName: "ghost", LockVersion: "1"})
	if got := tableapi.ClassifyFailure(msg); got != tableapi.FailureTerminal {
		t.Errorf("unknown attribute classifies as %v, want terminal", got)
	}
}

func TestBatchSizeGuard(t *testing.T) {
	store := New(nil, DefaultConfig())
	oversized := make([]tableapi.Value, tableapi.MaxBatchValues+1)

	if _, err := store.BatchUpdateValues(context.Background(), "tbl", oversized); err != tableapi.ErrBatchTooLarge {
		t.Errorf("BatchUpdateValues error = %v, want ErrBatchTooLarge", err)
	}
	if _, err := store.BatchCreateValues(context.Background(), "tbl", oversized); err != tableapi.ErrBatchTooLarge {
		t.Errorf("BatchCreateValues error = %v, want ErrBatchTooLarge", err)
	}
}
