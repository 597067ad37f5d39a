package dynamo

// Config holds configuration for the Store.
type Config struct {
	// MetaTable is the DynamoDB table holding data-table and attribute
	// records. Default: "tablesync_meta"
	MetaTable string

	// ValuesTable is the DynamoDB table holding one item per stored cell.
	// Default: "tablesync_values"
	ValuesTable string
}

// DefaultConfig returns the default table names.
func DefaultConfig() Config {
	return Config{
		MetaTable:   "tablesync_meta",
		ValuesTable: "tablesync_values",
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.MetaTable == "" {
		c.MetaTable = "tablesync_meta"
	}
	if c.ValuesTable == "" {
		c.ValuesTable = "tablesync_values"
	}
}
