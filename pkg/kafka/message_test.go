package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(op, before, after string) []byte {
	return []byte(`{
		"payload": {
			"before": ` + before + `,
			"after": ` + after + `,
			"source": {"connector": "postgresql", "db": "trellis", "schema": "public", "table": "formula_templates"},
			"op": "` + op + `",
			"ts_ms": 1724700000000
		}
	}`)
}

const templateRow = `{"id": "t-1", "tenant_id": "default", "product_type_id": "pt-1", "component_code": "post"}`

func TestParseCatalogChange(t *testing.T) {
	t.Run("create reads the after image", func(t *testing.T) {
		msg := &IncomingMessage{Value: envelope("c", "null", templateRow)}
		require.NoError(t, msg.ParseCatalogChange())

		require.NotNil(t, msg.CatalogChange)
		assert.Equal(t, "formula_templates", msg.CatalogChange.Table)
		assert.Equal(t, "default", msg.CatalogChange.TenantID)
		assert.Equal(t, "pt-1", msg.CatalogChange.ProductTypeID)
	})

	t.Run("delete reads the before image", func(t *testing.T) {
		msg := &IncomingMessage{Value: envelope("d", templateRow, "null")}
		require.NoError(t, msg.ParseCatalogChange())

		require.NotNil(t, msg.CatalogChange)
		assert.Equal(t, "d", msg.CatalogChange.Op)
		assert.Equal(t, "pt-1", msg.CatalogChange.ProductTypeID)
	})

	t.Run("invalid JSON fails", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte("not json")}
		assert.Error(t, msg.ParseCatalogChange())
	})

	t.Run("snapshot reads count as creates", func(t *testing.T) {
		p := DebeziumPayload{Op: "r"}
		assert.True(t, p.IsCreate())
		assert.False(t, p.IsUpdate())
		assert.False(t, p.IsDelete())
	})
}
