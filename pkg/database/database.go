package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/z2z63/DB2024-OSCore/internal/config"
	"github.com/z2z63/DB2024-OSCore/internal/storage"
)

// Database represents the main database interface
type Database interface {
	// Connection management
	Connect(ctx context.Context) (Connection, error)
	Close() error
	
	// Database operations
	CreateTable(name string, schema TableSchema) error
	DropTable(name string) error
	ListTables() ([]string, error)
	
	// Statistics and monitoring
	Stats() DatabaseStats
	Health() HealthStatus
}

// Connection represents a database connection
type Connection interface {
	// Query operations
	Execute(query string, params ...interface{}) (Result, error)
	ExecuteContext(ctx context.Context, query string, params ...interface{}) (Result, error)
	
	// Transaction management
	Begin() (Transaction, error)
	BeginContext(ctx context.Context) (Transaction, error)
	
	// Connection management
	Close() error
	Ping() error
}

// Transaction represents a database transaction
type Transaction interface {
	// Query operations within transaction
	Execute(query string, params ...interface{}) (Result, error)
	ExecuteContext(ctx context.Context, query string, params ...interface{}) (Result, error)
	
	// Transaction control
	Commit() error
	Rollback() error
	
	// Status
	Status() TransactionStatus
}

// Result represents query execution results
type Result interface {
	// Row retrieval
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	
	// Result metadata
	RowsAffected() int64
	LastInsertID() int64
	Columns() []string
	Err() error
}

// TableSchema represents table structure
type TableSchema struct {
	Name    string
	Columns []ColumnSchema
	Indexes []IndexSchema
}

// ColumnSchema represents column definition
type ColumnSchema struct {
	Name         string
	Type         DataType
	Size         int
	Nullable     bool
	PrimaryKey   bool
	AutoIncrement bool
	Default      interface{}
}

// IndexSchema represents index definition
type IndexSchema struct {
	Name    string
	Columns []string
	Unique  bool
}

// DataType represents supported column data types
type DataType int

const (
	TypeInt DataType = iota
	TypeBigInt
	TypeFloat
	TypeDouble
	TypeVarChar
	TypeText
	TypeBool
	TypeDate
	TypeDateTime
	TypeTimestamp
)

func (dt DataType) String() string {
	switch dt {
	case TypeInt:
		return "INT"
	case TypeBigInt:
		return "BIGINT"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeVarChar:
		return "VARCHAR"
	case TypeText:
		return "TEXT"
	case TypeBool:
		return "BOOLEAN"
	case TypeDate:
		return "DATE"
	case TypeDateTime:
		return "DATETIME"
	case TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// TransactionStatus represents transaction state
type TransactionStatus int

const (
	TxActive TransactionStatus = iota
	TxCommitted
	TxRolledBack
)

func (ts TransactionStatus) String() string {
	switch ts {
	case TxActive:
		return "ACTIVE"
	case TxCommitted:
		return "COMMITTED"
	case TxRolledBack:
		return "ROLLED_BACK"
	default:
		return "UNKNOWN"
	}
}

// DatabaseStats provides database statistics
type DatabaseStats struct {
	ConnectionsActive   int
	ConnectionsTotal    int64
	QueriesExecuted     int64
	TransactionsActive  int
	TransactionsTotal   int64
	StorageStats        storage.StorageStats
	Uptime              time.Duration
}

// HealthStatus represents database health
type HealthStatus struct {
	Status     string
	Uptime     time.Duration
	LastCheck  time.Time
	Details    map[string]interface{}
}

// DatabaseImpl implements the Database interface
type DatabaseImpl struct {
	mu            sync.RWMutex
	config        *config.Config
	storage       storage.StorageEngine
	connections   map[string]*ConnectionImpl
	startTime     time.Time
	
	// Statistics
	connectionsTotal    int64
	queriesExecuted     int64
	transactionsTotal   int64
}

// NewDatabase creates a new database instance
func NewDatabase(cfg *config.Config, storageEngine storage.StorageEngine) (*DatabaseImpl, error) {
	return &DatabaseImpl{
		config:      cfg,
		storage:     storageEngine,
		connections: make(map[string]*ConnectionImpl),
		startTime:   time.Now(),
	}, nil
}

// Connect creates a new database connection
func (db *DatabaseImpl) Connect(ctx context.Context) (Connection, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	
	// Check if we've reached max connections
	if len(db.connections) >= db.config.Server.MaxConnections {
		return nil, fmt.Errorf("maximum connections reached (%d)", db.config.Server.MaxConnections)
	}
	
	// Create new connection
	connID := fmt.Sprintf("conn_%d_%d", time.Now().Unix(), len(db.connections))
	conn := &ConnectionImpl{
		id:       connID,
		database: db,
		storage:  db.storage,
		created:  time.Now(),
		ctx:      ctx,
	}
	
	db.connections[connID] = conn
	db.connectionsTotal++
	
	return conn, nil
}

// Close closes the database and all connections
func (db *DatabaseImpl) Close() error {
	db.mu.Lock()
	conns := db.connections
	db.connections = make(map[string]*ConnectionImpl)
	db.mu.Unlock()

	// Close all connections; each one takes db.mu to remove itself
	for _, conn := range conns {
		conn.Close()
	}
	
	return nil
}

// CreateTable creates a new table
func (db *DatabaseImpl) CreateTable(name string, schema TableSchema) error {
	// TODO: Implement table creation
	return fmt.Errorf("table creation not yet implemented")
}

// DropTable drops a table
func (db *DatabaseImpl) DropTable(name string) error {
	// TODO: Implement table dropping
	return fmt.Errorf("table dropping not yet implemented")
}

// ListTables lists all tables
func (db *DatabaseImpl) ListTables() ([]string, error) {
	// TODO: Implement table listing
	return []string{}, nil
}

// Stats returns database statistics
func (db *DatabaseImpl) Stats() DatabaseStats {
	db.mu.RLock()
	defer db.mu.RUnlock()
	
	return DatabaseStats{
		ConnectionsActive:   len(db.connections),
		ConnectionsTotal:    db.connectionsTotal,
		QueriesExecuted:     db.queriesExecuted,
		TransactionsActive:  0, // TODO: Implement transaction tracking
		TransactionsTotal:   db.transactionsTotal,
		StorageStats:        db.storage.Stats(),
		Uptime:              time.Since(db.startTime),
	}
}

// Health returns database health status
func (db *DatabaseImpl) Health() HealthStatus {
	db.mu.RLock()
	defer db.mu.RUnlock()
	
	status := "healthy"
	details := make(map[string]interface{})
	
	// Check storage health
	storageStats := db.storage.Stats()
	details["storage_pages"] = storageStats.TotalPages
	details["buffer_hit_ratio"] = float64(storageStats.BufferHits) / float64(storageStats.BufferHits+storageStats.BufferMisses) * 100
	details["active_connections"] = len(db.connections)
	
	return HealthStatus{
		Status:    status,
		Uptime:    time.Since(db.startTime),
		LastCheck: time.Now(),
		Details:   details,
	}
}

// removeConnection removes a connection from the database
func (db *DatabaseImpl) removeConnection(connID string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	
	delete(db.connections, connID)
}

// incrementQueryCount increments the query execution counter
func (db *DatabaseImpl) incrementQueryCount() {
	db.mu.Lock()
	defer db.mu.Unlock()
	
	db.queriesExecuted++
}

// ConnectionImpl implements the Connection interface
type ConnectionImpl struct {
	mu       sync.RWMutex
	id       string
	database *DatabaseImpl
	storage  storage.StorageEngine
	created  time.Time
	closed   bool
	ctx      context.Context
}

// Execute executes a query
func (c *ConnectionImpl) Execute(query string, params ...interface{}) (Result, error) {
	return c.ExecuteContext(c.ctx, query, params...)
}

// ExecuteContext executes a query with context
func (c *ConnectionImpl) ExecuteContext(ctx context.Context, query string, params ...interface{}) (Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	
	if c.closed {
		return nil, fmt.Errorf("connection is closed")
	}
	
	// TODO: Implement query parsing and execution
	c.database.incrementQueryCount()
	
	return &ResultImpl{
		columns: []string{},
		rows:    [][]interface{}{},
	}, fmt.Errorf("query execution not yet implemented")
}

// Begin starts a new transaction
func (c *ConnectionImpl) Begin() (Transaction, error) {
	return c.BeginContext(c.ctx)
}

// BeginContext starts a new transaction with context
func (c *ConnectionImpl) BeginContext(ctx context.Context) (Transaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	
	if c.closed {
		return nil, fmt.Errorf("connection is closed")
	}
	
	// TODO: Implement transaction management
	return &TransactionImpl{
		connection: c,
		status:     TxActive,
		ctx:        ctx,
	}, nil
}

// Close closes the connection
func (c *ConnectionImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	
	if c.closed {
		return nil
	}
	
	c.closed = true
	c.database.removeConnection(c.id)
	
	return nil
}

// Ping tests the connection
func (c *ConnectionImpl) Ping() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	
	if c.closed {
		return fmt.Errorf("connection is closed")
	}
	
	return nil
}

// TransactionImpl implements the Transaction interface
type TransactionImpl struct {
	mu         sync.RWMutex
	connection *ConnectionImpl
	status     TransactionStatus
	ctx        context.Context
}

// Execute executes a query within the transaction
func (tx *TransactionImpl) Execute(query string, params ...interface{}) (Result, error) {
	return tx.ExecuteContext(tx.ctx, query, params...)
}

// ExecuteContext executes a query within the transaction with context
func (tx *TransactionImpl) ExecuteContext(ctx context.Context, query string, params ...interface{}) (Result, error) {
	tx.mu.RLock()
	defer tx.mu.RUnlock()
	
	if tx.status != TxActive {
		return nil, fmt.Errorf("transaction is not active")
	}
	
	// TODO: Implement transactional query execution
	return &ResultImpl{
		columns: []string{},
		rows:    [][]interface{}{},
	}, fmt.Errorf("transactional query execution not yet implemented")
}

// Commit commits the transaction
func (tx *TransactionImpl) Commit() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	
	if tx.status != TxActive {
		return fmt.Errorf("transaction is not active")
	}
	
	// TODO: Implement transaction commit
	tx.status = TxCommitted
	return nil
}

// Rollback rolls back the transaction
func (tx *TransactionImpl) Rollback() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	
	if tx.status != TxActive {
		return fmt.Errorf("transaction is not active")
	}
	
	// TODO: Implement transaction rollback
	tx.status = TxRolledBack
	return nil
}

// Status returns the transaction status
func (tx *TransactionImpl) Status() TransactionStatus {
	tx.mu.RLock()
	defer tx.mu.RUnlock()
	
	return tx.status
}

// ResultImpl implements the Result interface
type ResultImpl struct {
	mu       sync.RWMutex
	columns  []string
	rows     [][]interface{}
	position int
	closed   bool
}

// Next advances to the next row
func (r *ResultImpl) Next() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	
	if r.closed || r.position >= len(r.rows) {
		return false
	}
	
	r.position++
	return r.position <= len(r.rows)
}

// Scan copies the current row's values into the provided destinations
func (r *ResultImpl) Scan(dest ...interface{}) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	
	if r.closed {
		return fmt.Errorf("result set is closed")
	}
	
	if r.position <= 0 || r.position > len(r.rows) {
		return fmt.Errorf("invalid row position")
	}
	
	row := r.rows[r.position-1]
	if len(dest) != len(row) {
		return fmt.Errorf("destination count mismatch: expected %d, got %d", len(row), len(dest))
	}
	
	// TODO: Implement proper type conversion
	for i, val := range row {
		dest[i] = val
	}
	
	return nil
}

// Close closes the result set
func (r *ResultImpl) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	
	r.closed = true
	return nil
}

// RowsAffected returns the number of affected rows
func (r *ResultImpl) RowsAffected() int64 {
	return int64(len(r.rows))
}

// LastInsertID returns the last inserted ID
func (r *ResultImpl) LastInsertID() int64 {
	return 0 // TODO: Implement
}

// Columns returns the column names
func (r *ResultImpl) Columns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	
	return r.columns
}

// Err returns any error that occurred
func (r *ResultImpl) Err() error {
	return nil
}