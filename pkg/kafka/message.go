package kafka

import (
	"encoding/json"
	"time"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	CatalogChange *CatalogChange
}

// DebeziumEnvelope is the standard Debezium CDC message format
type DebeziumEnvelope struct {
	Schema  json.RawMessage `json:"schema,omitempty"`
	Payload DebeziumPayload `json:"payload"`
}

// DebeziumPayload contains the before/after state of a row
type DebeziumPayload struct {
	Before json.RawMessage `json:"before"`
	After  json.RawMessage `json:"after"`
	Source DebeziumSource  `json:"source"`
	Op     string          `json:"op"` // c=create, u=update, d=delete, r=read (snapshot)
	TsMs   int64           `json:"ts_ms"`
}

// DebeziumSource contains metadata about the source of the change
type DebeziumSource struct {
	Version   string `json:"version"`
	Connector string `json:"connector"`
	Name      string `json:"name"`
	TsMs      int64  `json:"ts_ms"`
	Snapshot  string `json:"snapshot,omitempty"`
	Db        string `json:"db"`
	Schema    string `json:"schema"`
	Table     string `json:"table"`
}

// IsCreate returns true if this is a create operation
func (p *DebeziumPayload) IsCreate() bool {
	return p.Op == "c" || p.Op == "r"
}

// IsUpdate returns true if this is an update operation
func (p *DebeziumPayload) IsUpdate() bool {
	return p.Op == "u"
}

// IsDelete returns true if this is a delete operation
func (p *DebeziumPayload) IsDelete() bool {
	return p.Op == "d"
}

// FormulaTemplateRow is the shape of a formula_templates row inside a CDC
// payload. Only the columns the invalidation path needs are decoded.
type FormulaTemplateRow struct {
	ID            string `json:"id"`
	TenantID      string `json:"tenant_id"`
	ProductTypeID string `json:"product_type_id"`
	ComponentCode string `json:"component_code"`
}

// CatalogChange is a parsed catalog table change event.
type CatalogChange struct {
	Table         string
	Op            string
	TenantID      string
	ProductTypeID string
}

// ParseCatalogChange parses the message value as a Debezium envelope for one
// of the catalog tables.
func (m *IncomingMessage) ParseCatalogChange() error {
	var envelope DebeziumEnvelope
	if err := json.Unmarshal(m.Value, &envelope); err != nil {
		return err
	}

	// Deletes carry the row in Before; everything else in After.
	rowJSON := envelope.Payload.After
	if envelope.Payload.IsDelete() {
		rowJSON = envelope.Payload.Before
	}

	var row FormulaTemplateRow
	if len(rowJSON) > 0 {
		if err := json.Unmarshal(rowJSON, &row); err != nil {
			return err
		}
	}

	m.CatalogChange = &CatalogChange{
		Table:         envelope.Payload.Source.Table,
		Op:            envelope.Payload.Op,
		TenantID:      row.TenantID,
		ProductTypeID: row.ProductTypeID,
	}
	return nil
}
