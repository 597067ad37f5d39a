package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/refkit/tablesync/internal/rowkey"
	"github.com/refkit/tablesync/tableapi"
)

// Store implements tableapi.Service on DynamoDB.
type Store struct {
	client *dynamodb.Client
	config Config
}

// New creates a new Store instance.
func New(client *dynamodb.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

const (
	tablePKPrefix   = "TABLE#"
	namePKPrefix    = "TABLENAME#"
	metaSK          = "META"
	attributeSKPref = "ATTR#"
)

// tablePK returns the meta-table partition key for a data table's records.
func tablePK(tableID string) string { return tablePKPrefix + tableID }

// namePK returns the meta-table partition key for a table-name pointer.
func namePK(name string) string { return namePKPrefix + name }

// attributeSK returns the meta-table sort key for an attribute record.
func attributeSK(name string) string { return attributeSKPref + name }

// valueSK returns the values-table sort key for one cell.
func valueSK(primary []tableapi.PrimaryValue, attributeName string) string {
	return rowkey.Derive(primary) + "#" + attributeName
}

// tableRecord is the meta-table item for one data table.
type tableRecord struct {
	PK             string            `dynamodbav:"pk"`
	SK             string            `dynamodbav:"sk"`
	ID             string            `dynamodbav:"id"`
	Name           string            `dynamodbav:"name"`
	Description    string            `dynamodbav:"description,omitempty"`
	TimeZone       string            `dynamodbav:"time_zone,omitempty"`
	ValueLockLevel string            `dynamodbav:"value_lock_level,omitempty"`
	Status         string            `dynamodbav:"status,omitempty"`
	Tags           map[string]string `dynamodbav:"tags,omitempty"`
	CreatedAt      string            `dynamodbav:"created_at"`
}

// namePointer keeps table names unique and resolves name lookups to IDs.
type namePointer struct {
	PK      string `dynamodbav:"pk"`
	SK      string `dynamodbav:"sk"`
	TableID string `dynamodbav:"table_id"`
}

// attributeRecord is the meta-table item for one attribute. Its lock_version
// is the source of truth for the attribute's current lock token.
type attributeRecord struct {
	PK          string               `dynamodbav:"pk"`
	SK          string               `dynamodbav:"sk"`
	Name        string               `dynamodbav:"name"`
	ValueType   string               `dynamodbav:"value_type"`
	Description string               `dynamodbav:"description,omitempty"`
	Primary     bool                 `dynamodbav:"primary"`
	Validation  *tableapi.Validation `dynamodbav:"validation,omitempty"`
	LockVersion int64                `dynamodbav:"lock_version"`
}

// valueRecord is the values-table item for one cell.
type valueRecord struct {
	PK            string `dynamodbav:"pk"`
	SK            string `dynamodbav:"sk"`
	RowKey        string `dynamodbav:"row_key"`
	AttributeName string `dynamodbav:"attribute_name"`
	PrimaryValues string `dynamodbav:"primary_values"`
	Value         string `dynamodbav:"value"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}
