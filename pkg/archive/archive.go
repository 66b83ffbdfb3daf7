// Package archive persists dispatched report payloads to Postgres. The
// archive is append-only and strictly optional: it is enabled when a DSN is
// configured, and write failures are logged and swallowed. Session state
// itself never touches the database.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/notify"
)

const schema = `
CREATE TABLE IF NOT EXISTS honeypot_reports (
	id            UUID PRIMARY KEY,
	session_id    TEXT NOT NULL,
	delivered     BOOLEAN NOT NULL,
	total_messages INTEGER NOT NULL,
	agent_notes   TEXT NOT NULL,
	intelligence  JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Archive is an append-only sink for outbound reports.
type Archive struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and ensures the reports table exists.
func New(ctx context.Context, dsn string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to archive database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure reports table: %w", err)
	}
	return &Archive{pool: pool}, nil
}

// Close releases the connection pool.
func (a *Archive) Close() {
	a.pool.Close()
}

// Record appends one dispatched report. delivered records whether the
// external endpoint accepted it. Errors are logged, never returned: archival
// must not interfere with the request path.
func (a *Archive) Record(ctx context.Context, p notify.Payload, delivered bool) {
	if a == nil {
		return
	}

	intelJSON, err := json.Marshal(p.ExtractedIntelligence)
	if err != nil {
		log.Printf("[ARCHIVE] marshal intelligence for sessionId=%s: %v", p.SessionID, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = a.pool.Exec(ctx, `
		INSERT INTO honeypot_reports (id, session_id, delivered, total_messages, agent_notes, intelligence)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), p.SessionID, delivered, p.TotalMessagesExchanged, p.AgentNotes, intelJSON,
	)
	if err != nil {
		log.Printf("[ARCHIVE] insert report for sessionId=%s: %v", p.SessionID, err)
	}
}
