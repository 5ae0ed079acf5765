package dispatcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/z2z63/DB2024-OSCore/internal/catalog"
	"github.com/z2z63/DB2024-OSCore/internal/config"
)

func testDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	users := catalog.NewTableMetadata("users")
	users.AddColumn(catalog.NewColumnMetadata("id", catalog.DataTypeInteger))
	users.AddColumn(catalog.NewColumnMetadata("age", catalog.DataTypeInteger))
	users.AddIndex(&catalog.IndexMetadata{Name: "idx_age", Columns: []string{"age"}})

	mock := catalog.NewMockCatalog()
	mock.AddTable(users)

	return NewDispatcher(config.Default(), nil, mock)
}

func TestValidateQueryRejectsEmpty(t *testing.T) {
	d := testDispatcher(t)
	require.Error(t, d.ValidateQuery(""))
	require.NoError(t, d.ValidateQuery("SELECT * FROM users"))
}

func TestExplainQueryChoosesIndexScan(t *testing.T) {
	d := testDispatcher(t)
	out, err := d.ExplainQuery(context.Background(), "SELECT * FROM users WHERE age = 5")
	require.NoError(t, err)
	require.Contains(t, out, "IndexScan(users)")
}

func TestExplainQueryRejectsUnknownTable(t *testing.T) {
	d := testDispatcher(t)
	_, err := d.ExplainQuery(context.Background(), "SELECT * FROM ghosts")
	require.Error(t, err)
}

func TestDispatchInsertReportsRowsAffected(t *testing.T) {
	d := testDispatcher(t)
	result, err := d.DispatchQuery(context.Background(), "INSERT INTO users (id, age) VALUES (1, 20)", &QueryContext{})
	require.NoError(t, err)
	require.NoError(t, result.Error)
	require.Equal(t, int64(1), result.RowsAffected)
}

func TestDispatchCreateTableIsRoutedAsDDL(t *testing.T) {
	d := testDispatcher(t)
	result, err := d.DispatchQuery(context.Background(), "CREATE TABLE widgets (id INTEGER PRIMARY KEY)", &QueryContext{})
	require.NoError(t, err)
	require.NoError(t, result.Error)
}

func TestStatsTrackQueryTypes(t *testing.T) {
	d := testDispatcher(t)
	_, _ = d.DispatchQuery(context.Background(), "INSERT INTO users (id, age) VALUES (2, 30)", &QueryContext{})
	stats := d.GetStats()
	require.Equal(t, int64(1), stats.QueriesExecuted)
	require.Equal(t, int64(1), stats.QueryTypeStats[QueryTypeInsert])
	require.True(t, strings.Contains(stats.String(), "Total Queries: 1"))
}
