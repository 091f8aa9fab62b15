package postgres

import (
	"context"
	"fmt"
)

// Schema creates the build history and posting tables. Statements are
// idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS index_builds (
		id           BIGSERIAL PRIMARY KEY,
		output_path  TEXT        NOT NULL,
		documents    INTEGER     NOT NULL,
		word_ids     INTEGER     NOT NULL,
		postings     BIGINT      NOT NULL,
		checksum     BIGINT      NOT NULL,
		started_at   TIMESTAMPTZ NOT NULL,
		finished_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS postings (
		word_id  INTEGER   PRIMARY KEY,
		doc_ids  INTEGER[] NOT NULL,
		build_id BIGINT    NOT NULL REFERENCES index_builds(id)
	)`,
}

// Migrate applies Schema.
func (c *Client) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
