package tableapi

import "context"

// Backend is the value-operation surface of a lock-versioned data-table
// service. All calls are synchronous round-trips. A call may fail wholesale
// (returned error) or succeed while reporting per-item failures inside the
// BatchResult; callers must distinguish the two.
type Backend interface {
	// ListAttributeLockVersions returns the current lock version of every
	// attribute in the table.
	ListAttributeLockVersions(ctx context.Context, tableID string) (LockVersions, error)

	// BatchUpdateValues updates up to MaxBatchValues existing cells.
	// A cell that does not exist yet fails with a missing-value message;
	// a stale lock version fails with a conflict message.
	BatchUpdateValues(ctx context.Context, tableID string, values []Value) (*BatchResult, error)

	// BatchCreateValues creates up to MaxBatchValues new cells. Lock
	// versions are required even for creation because locking is
	// attribute-level, not row-level. An existing cell fails with an
	// already-exists message.
	BatchCreateValues(ctx context.Context, tableID string, values []Value) (*BatchResult, error)
}

// Admin is the schema-management surface of the service. The sync engine
// never calls it; orchestration treats these as plain collaborator calls with
// no retry semantics of their own.
type Admin interface {
	// FindTable looks a table up by name, returning ErrTableNotFound when
	// no table with that name exists.
	FindTable(ctx context.Context, name string) (*Table, error)

	// CreateTable creates a new table and returns it with its assigned ID.
	// Returns ErrTableExists when the name is already taken.
	CreateTable(ctx context.Context, table Table) (*Table, error)

	// DeleteTable removes a table, its attributes, and all of its values.
	DeleteTable(ctx context.Context, tableID string) error

	// ListAttributes returns all attribute definitions of a table.
	ListAttributes(ctx context.Context, tableID string) ([]AttributeDefinition, error)

	// CreateAttribute adds an attribute to a table. Returns
	// ErrAttributeExists when an attribute with that name is already
	// defined.
	CreateAttribute(ctx context.Context, tableID string, def AttributeDefinition) error

	// ListValues returns stored cells, up to limit (0 = no limit).
	ListValues(ctx context.Context, tableID string, limit int32) ([]RowValue, error)
}

// Service combines the value and schema surfaces. The dynamo package
// implements it in full.
type Service interface {
	Backend
	Admin
}
