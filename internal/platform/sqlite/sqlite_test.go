package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesSchemaAndForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var enabled int
	require.NoError(t, db.GetContext(ctx, &enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)

	var tables []string
	require.NoError(t, db.SelectContext(ctx, &tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE 'tb_%' ORDER BY name`))
	assert.Equal(t, []string{
		"tb_category", "tb_order", "tb_order_item", "tb_product",
		"tb_product_category", "tb_role", "tb_user", "tb_user_role",
	}, tables)

	require.NoError(t, Migrate(ctx, db), "schema must be re-applicable")
}

func TestTimeRoundTrip(t *testing.T) {
	moment := time.Date(2022, 7, 25, 13, 0, 0, 123, time.FixedZone("BRT", -3*3600))

	parsed, err := ParseTime(FormatTime(moment))

	require.NoError(t, err)
	assert.True(t, moment.Equal(parsed))
}

func TestFormatTimeOrdersLexically(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Less(t, FormatTime(base), FormatTime(base.Add(500*time.Millisecond)))
	assert.Less(t, FormatTime(base.Add(-time.Nanosecond)), FormatTime(base))
}
