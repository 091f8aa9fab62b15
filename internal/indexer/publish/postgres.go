package publish

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/postgres"
)

// PostgresTarget records the build in index_builds and replaces the postings
// table in a single transaction.
type PostgresTarget struct {
	client *postgres.Client
}

func NewPostgresTarget(client *postgres.Client) *PostgresTarget {
	return &PostgresTarget{client: client}
}

func (p *PostgresTarget) Name() string { return "postgres" }

func (p *PostgresTarget) Publish(ctx context.Context, res *indexer.Result) error {
	if err := p.client.Migrate(ctx); err != nil {
		return err
	}
	return p.client.InTx(ctx, func(tx *sql.Tx) error {
		var buildID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO index_builds (output_path, documents, word_ids, postings, checksum, started_at)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			res.OutputPath, res.Documents, res.WordIDs, res.Postings, int64(res.Checksum), res.StartedAt,
		).Scan(&buildID)
		if err != nil {
			return fmt.Errorf("recording build: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM postings`); err != nil {
			return fmt.Errorf("clearing postings: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("postings", "word_id", "doc_ids", "build_id"))
		if err != nil {
			return fmt.Errorf("preparing copy: %w", err)
		}
		defer stmt.Close()
		for _, entry := range res.Entries {
			ids := make([]int64, len(entry.DocIDs))
			for i, d := range entry.DocIDs {
				ids[i] = int64(d)
			}
			if _, err := stmt.ExecContext(ctx, entry.WordID, pq.Array(ids), buildID); err != nil {
				return fmt.Errorf("copying word %d: %w", entry.WordID, err)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			return fmt.Errorf("flushing copy: %w", err)
		}
		return nil
	})
}
