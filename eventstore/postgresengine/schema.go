package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

const (
	logMsgSchemaCreated      = "schema created"
	logMsgCreateSchemaFailed = "failed to create schema"
)

// schemaStatements returns the idempotent DDL for the events table.
//
// The GIN index (jsonb_path_ops) serves the payload @> '{"Key":"Val"}' containment checks, which covers
// the lookups "open loan by book" and "open loans by user" as well as all loan-by-id lookups.
func (es *EventStore) schemaStatements() []string {
	table := es.eventTableName

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	sequence_number BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	appended_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (event_type)`, table+"_event_type_idx", table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q USING gin (payload jsonb_path_ops)`, table+"_payload_gin_idx", table),
	}
}

// CreateSchema creates the events table and its indexes if they do not exist yet.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	for _, statement := range es.schemaStatements() {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			es.logErrorBoth(ctx, logMsgCreateSchemaFailed, err, logAttrQuery, statement)
			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	es.logOperationBoth(ctx, logMsgSchemaCreated)

	return nil
}
