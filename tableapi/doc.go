// Package tableapi defines the contract between the value-synchronization
// engine and a remote managed data-table service.
//
// A data table is a named collection of typed attributes and rows. Rows are
// identified by their primary values. The service enforces optimistic
// concurrency at the attribute level: every attribute carries an opaque lock
// version that rotates on each successful mutation, and every mutation must
// present the attribute's current lock version or be rejected.
//
// # Interfaces
//
// [Backend] covers the value operations the sync engine drives:
//
//	type Backend interface {
//	    ListAttributeLockVersions(ctx context.Context, tableID string) (LockVersions, error)
//	    BatchUpdateValues(ctx context.Context, tableID string, values []Value) (*BatchResult, error)
//	    BatchCreateValues(ctx context.Context, tableID string, values []Value) (*BatchResult, error)
//	}
//
// [Admin] covers table and attribute schema management. Both are implemented
// by the dynamo package; any backend with equivalent semantics can be
// substituted as long as its per-item failure messages map onto the classes
// recognised by [ClassifyFailure].
//
// # Failure classification
//
// Per-item failures inside an otherwise successful batch call are reported as
// free-form messages. [ClassifyFailure] is the single place where those
// messages are translated into [FailureClass] values; backend-specific
// message formats must not leak past it.
package tableapi
