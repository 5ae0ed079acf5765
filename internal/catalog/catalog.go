// Package catalog holds the schema metadata consumed by the compiler and the
// query planner. A real deployment backs this with the storage manager's
// system tables; the in-memory MockCatalog here is enough to drive the
// compiler, the planner, and the demo CLI end to end.
package catalog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// CatalogManager is the interface consumed by the compiler and the planner
// for schema metadata access (spec §6's "Catalog interface").
type CatalogManager interface {
	// GetTable retrieves table metadata by name
	GetTable(name string) (*TableMetadata, error)

	// GetColumn retrieves column metadata
	GetColumn(table, column string) (*ColumnMetadata, error)

	// TableExists checks if a table exists
	TableExists(name string) bool

	// ListTables returns all table names
	ListTables() ([]string, error)
}

// DataType represents SQL data types.
type DataType int

const (
	DataTypeUnknown DataType = iota

	// Numeric types
	DataTypeInteger // INT, INTEGER
	DataTypeReal    // REAL, FLOAT, DOUBLE
	DataTypeNumeric // NUMERIC, DECIMAL

	// String types
	DataTypeText // TEXT, VARCHAR, CHAR
	DataTypeBlob // BLOB, BINARY

	// Other types
	DataTypeBoolean   // BOOLEAN, BOOL
	DataTypeDate      // DATE
	DataTypeTime      // TIME
	DataTypeTimestamp // TIMESTAMP, DATETIME
	DataTypeNull      // NULL type
)

// String returns the string representation of DataType
func (dt DataType) String() string {
	switch dt {
	case DataTypeInteger:
		return "INTEGER"
	case DataTypeReal:
		return "REAL"
	case DataTypeNumeric:
		return "NUMERIC"
	case DataTypeText:
		return "TEXT"
	case DataTypeBlob:
		return "BLOB"
	case DataTypeBoolean:
		return "BOOLEAN"
	case DataTypeDate:
		return "DATE"
	case DataTypeTime:
		return "TIME"
	case DataTypeTimestamp:
		return "TIMESTAMP"
	case DataTypeNull:
		return "NULL"
	default:
		return "UNKNOWN"
	}
}

// IsNumeric returns true if this is a numeric type
func (dt DataType) IsNumeric() bool {
	return dt == DataTypeInteger || dt == DataTypeReal || dt == DataTypeNumeric
}

// IsString returns true if this is a string type
func (dt DataType) IsString() bool {
	return dt == DataTypeText || dt == DataTypeBlob
}

// IsComparable returns true if two types can be compared
func (dt DataType) IsComparable(other DataType) bool {
	if dt == DataTypeNull || other == DataTypeNull {
		return true
	}
	if dt == other {
		return true
	}
	if dt.IsNumeric() && other.IsNumeric() {
		return true
	}
	return false
}

// CanCoerceTo returns true if this type can be coerced to another
func (dt DataType) CanCoerceTo(other DataType) bool {
	if dt == other {
		return true
	}
	if dt == DataTypeNull {
		return true
	}
	if dt == DataTypeInteger && (other == DataTypeReal || other == DataTypeNumeric) {
		return true
	}
	return false
}

// CoerceLiteral converts a literal value to the Go representation that a
// column of the given type expects. Condition right-hand-side literals
// arrive untyped from the parser (string, float64, int, bool).
func CoerceLiteral(value interface{}, target DataType) (interface{}, error) {
	switch target {
	case DataTypeInteger:
		return cast.ToInt64E(value)
	case DataTypeReal, DataTypeNumeric:
		return cast.ToFloat64E(value)
	case DataTypeText, DataTypeBlob:
		return cast.ToStringE(value)
	case DataTypeBoolean:
		return cast.ToBoolE(value)
	default:
		return value, nil
	}
}

// TypeCoercion represents a type conversion
type TypeCoercion struct {
	FromType DataType
	ToType   DataType
	Reason   string
}

// ColumnMetadata contains column schema information
type ColumnMetadata struct {
	Name         string
	TableName    string
	Position     int
	DataType     DataType
	Length       int
	Nullable     bool
	IsPrimaryKey bool
	IsUnique     bool
	HasDefault   bool
	DefaultValue interface{}
	ColumnID     uint32
}

// NewColumnMetadata creates a new ColumnMetadata
func NewColumnMetadata(name string, dataType DataType) *ColumnMetadata {
	return &ColumnMetadata{
		Name:     name,
		DataType: dataType,
		Nullable: true,
	}
}

// QualifiedName returns the fully qualified column name
func (cm *ColumnMetadata) QualifiedName() string {
	if cm.TableName != "" {
		return cm.TableName + "." + cm.Name
	}
	return cm.Name
}

// IsNumeric returns true if this is a numeric column
func (cm *ColumnMetadata) IsNumeric() bool {
	return cm.DataType.IsNumeric()
}

// CanBeNull returns true if this column can contain NULL
func (cm *ColumnMetadata) CanBeNull() bool {
	return cm.Nullable && !cm.IsPrimaryKey
}

// IndexMetadata describes one index on a table. Columns is ordered — order
// is semantically significant, it defines the index key prefix that the
// planner's leftmost-prefix matching walks (spec §4.2.1).
type IndexMetadata struct {
	Name     string
	Table    string
	Columns  []string
	IsUnique bool
	IsPrimary bool
}

// TableMetadata contains table schema information
type TableMetadata struct {
	Name      string
	Schema    string
	Columns   []*ColumnMetadata
	ColumnMap map[string]*ColumnMetadata
	Indexes   []*IndexMetadata
	RowCount  int64
	TotalSize int64
	TableID   uint64
	CreatedAt time.Time
}

// NewTableMetadata creates a new TableMetadata
func NewTableMetadata(name string) *TableMetadata {
	return &TableMetadata{
		Name:      name,
		Columns:   make([]*ColumnMetadata, 0),
		ColumnMap: make(map[string]*ColumnMetadata),
		Indexes:   make([]*IndexMetadata, 0),
		CreatedAt: time.Now(),
	}
}

// AddColumn adds a column to the table
func (tm *TableMetadata) AddColumn(col *ColumnMetadata) {
	tm.Columns = append(tm.Columns, col)
	tm.ColumnMap[strings.ToLower(col.Name)] = col
	col.TableName = tm.Name
	col.Position = len(tm.Columns) - 1
}

// AddIndex registers an index on the table in declaration order. Declaration
// order is what breaks ties when two indexes score equally in §4.2.1.
func (tm *TableMetadata) AddIndex(idx *IndexMetadata) {
	idx.Table = tm.Name
	tm.Indexes = append(tm.Indexes, idx)
}

// GetColumn retrieves a column by name
func (tm *TableMetadata) GetColumn(name string) (*ColumnMetadata, error) {
	col, found := tm.ColumnMap[strings.ToLower(name)]
	if !found {
		return nil, fmt.Errorf("column %s not found in table %s", name, tm.Name)
	}
	return col, nil
}

// HasColumn checks if a column exists
func (tm *TableMetadata) HasColumn(name string) bool {
	_, found := tm.ColumnMap[strings.ToLower(name)]
	return found
}

// MockCatalog is a simple in-memory catalog for testing and the demo CLI.
type MockCatalog struct {
	mu     sync.RWMutex
	tables map[string]*TableMetadata
}

// NewMockCatalog creates a new mock catalog
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		tables: make(map[string]*TableMetadata),
	}
}

// AddTable adds a table to the mock catalog
func (mc *MockCatalog) AddTable(table *TableMetadata) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.tables[strings.ToLower(table.Name)] = table
}

// GetTable retrieves table metadata by name
func (mc *MockCatalog) GetTable(name string) (*TableMetadata, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	table, found := mc.tables[strings.ToLower(name)]
	if !found {
		return nil, fmt.Errorf("table not found: %s", name)
	}
	return table, nil
}

// GetColumn retrieves column metadata
func (mc *MockCatalog) GetColumn(table, column string) (*ColumnMetadata, error) {
	t, err := mc.GetTable(table)
	if err != nil {
		return nil, err
	}
	return t.GetColumn(column)
}

// TableExists checks if a table exists
func (mc *MockCatalog) TableExists(name string) bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	_, found := mc.tables[strings.ToLower(name)]
	return found
}

// ListTables returns all table names
func (mc *MockCatalog) ListTables() ([]string, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	names := make([]string, 0, len(mc.tables))
	for name := range mc.tables {
		names = append(names, name)
	}
	return names, nil
}
