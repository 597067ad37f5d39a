package tableapi

// MaxBatchValues is the remote contract's per-call item ceiling for
// BatchUpdateValues and BatchCreateValues.
const MaxBatchValues = 25

// ValueType is the declared data type of a table attribute.
type ValueType string

const (
	ValueTypeText       ValueType = "TEXT"
	ValueTypeNumber     ValueType = "NUMBER"
	ValueTypeBoolean    ValueType = "BOOLEAN"
	ValueTypeDate       ValueType = "DATE"
	ValueTypeTextList   ValueType = "TEXT_LIST"
	ValueTypeNumberList ValueType = "NUMBER_LIST"
)

// LockVersion is an opaque optimistic-concurrency token for a single
// attribute. A token observed before any mutation of that attribute is stale
// and will be rejected by the service.
type LockVersion string

// LockVersions maps attribute names to their current lock versions as
// observed at a point in time. It expires on every successful mutation to any
// attribute and must be refetched, never cached across batches.
type LockVersions map[string]LockVersion

// EnumValidation restricts an attribute to a fixed set of values.
type EnumValidation struct {
	Strict bool     `json:"strict" yaml:"strict"`
	Values []string `json:"values" yaml:"values"`
}

// Validation holds the optional validation rules for an attribute. Which
// fields apply depends on the attribute's value type.
type Validation struct {
	MinLength  *int            `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength  *int            `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinValues  *int            `json:"minValues,omitempty" yaml:"minValues,omitempty"`
	MaxValues  *int            `json:"maxValues,omitempty" yaml:"maxValues,omitempty"`
	IgnoreCase *bool           `json:"ignoreCase,omitempty" yaml:"ignoreCase,omitempty"`
	Minimum    *float64        `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum    *float64        `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MultipleOf *float64        `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`
	Enum       *EnumValidation `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// AttributeDefinition describes one typed attribute of a data table.
// Definitions are loaded once per table and are immutable during a sync run.
type AttributeDefinition struct {
	Name        string      `json:"name" yaml:"name"`
	ValueType   ValueType   `json:"valueType" yaml:"valueType"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Primary     bool        `json:"primary,omitempty" yaml:"primary,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// PrimaryValue is one component of a row's identifying tuple.
type PrimaryValue struct {
	AttributeName string `json:"attributeName"`
	Value         string `json:"value"`
}

// AttributeValue is a raw configured value for a single attribute of a row.
// The value is kept loosely typed because configuration files may carry
// strings, numbers, booleans, or lists; the formatter coerces it to the wire
// representation.
type AttributeValue struct {
	AttributeName string `json:"attributeName"`
	Value         any    `json:"value"`
}

// RowSpec is the declarative specification of one logical row: the primary
// values identifying it plus the attribute values it should carry.
type RowSpec struct {
	PrimaryValues []PrimaryValue   `json:"primaryValues"`
	Attributes    []AttributeValue `json:"attributes"`
}

// Value is the unit of work submitted to the remote store: one serialized
// attribute value for one row, stamped with the attribute's lock version.
// Values are produced fresh per submission attempt; only LockVersion is ever
// refreshed in place.
type Value struct {
	PrimaryValues []PrimaryValue
	AttributeName string
	Value         string
	LockVersion   LockVersion
}

// FailedValue is a per-item failure reported inside a successful batch call.
type FailedValue struct {
	Value   Value
	Message string
}

// BatchResult is the per-item outcome of one batch call.
type BatchResult struct {
	Successful []Value
	Failed     []FailedValue
}

// Table describes a data table as known to the remote service.
type Table struct {
	ID             string
	Name           string
	Description    string
	TimeZone       string
	ValueLockLevel string
	Status         string
	Tags           map[string]string
	CreatedAt      string
}

// RowValue is one stored cell returned by Admin.ListValues.
type RowValue struct {
	PrimaryValues []PrimaryValue
	AttributeName string
	Value         string
}
