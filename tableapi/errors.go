package tableapi

import "errors"

var (
	// ErrTableNotFound is returned when no table with the given name or ID exists.
	ErrTableNotFound = errors.New("tablesync: data table not found")

	// ErrTableExists is returned when creating a table whose name is already taken.
	ErrTableExists = errors.New("tablesync: data table already exists")

	// ErrAttributeExists is returned when creating an attribute that is already defined.
	ErrAttributeExists = errors.New("tablesync: attribute already exists")

	// ErrBatchTooLarge is returned when a batch call exceeds MaxBatchValues items.
	ErrBatchTooLarge = errors.New("tablesync: batch exceeds maximum value count")

	// ErrLockVersionsUnavailable is returned when attribute lock versions
	// cannot be fetched. Without current lock versions no mutation is safe,
	// so this is fatal to the sync run for the affected table.
	ErrLockVersionsUnavailable = errors.New("tablesync: attribute lock versions unavailable")
)
