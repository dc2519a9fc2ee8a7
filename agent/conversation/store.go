// Package conversation persists chat history in Postgres through bun.
// The store is optional: the coordinator accepts a nil ConversationStore
// and skips persistence entirely.
package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

type Config struct {
	DatabaseURL string        `envconfig:"DATABASE_URL"`
	Timeout     time.Duration `envconfig:"CONVERSATION_DB_TIMEOUT" default:"5s"`
}

type conversationModel struct {
	bun.BaseModel `bun:"table:conversations"`

	ID        string    `bun:"id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type messageModel struct {
	bun.BaseModel `bun:"table:conversation_messages"`

	ID             string          `bun:"id,pk"`
	ConversationID string          `bun:"conversation_id,notnull"`
	Role           string          `bun:"role,notnull"`
	Content        string          `bun:"content,notnull"`
	AgentName      string          `bun:"agent_name"`
	Metadata       json.RawMessage `bun:"metadata,type:jsonb"`
	Timestamp      time.Time       `bun:"timestamp,notnull"`
}

// Store implements contract.ConversationStore on Postgres.
type Store struct {
	db      *bun.DB
	timeout time.Duration
}

// New opens the Postgres connection and ensures the schema exists. A blank
// DatabaseURL is a configuration decision, not an error: the caller gets
// (nil, nil) and runs without history.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DatabaseURL)))
	db := bun.NewDB(sqldb, pgdialect.New())

	s := &Store{db: db, timeout: cfg.Timeout}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("conversation store init: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.NewCreateTable().
		Model((*conversationModel)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}
	_, err := s.db.NewCreateTable().
		Model((*messageModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *Store) AppendMessage(ctx context.Context, conversationID string, record contractx.MessageRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var metadata json.RawMessage
	if len(record.Metadata) > 0 {
		raw, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("%w: encode metadata: %v", contractx.ErrHistoryUnavailable, err)
		}
		metadata = raw
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(&conversationModel{ID: conversationID, CreatedAt: record.Timestamp}).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(&messageModel{
				ID:             record.ID,
				ConversationID: conversationID,
				Role:           record.Role,
				Content:        record.Content,
				AgentName:      record.AgentName,
				Metadata:       metadata,
				Timestamp:      record.Timestamp,
			}).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrHistoryUnavailable, err)
	}
	return nil
}

func (s *Store) GetHistory(ctx context.Context, conversationID string) ([]contractx.MessageRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rows []messageModel
	err := s.db.NewSelect().
		Model(&rows).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", contractx.ErrHistoryUnavailable, err)
	}

	records := make([]contractx.MessageRecord, 0, len(rows))
	for _, row := range rows {
		rec := contractx.MessageRecord{
			ID:        row.ID,
			Role:      row.Role,
			Content:   row.Content,
			AgentName: row.AgentName,
			Timestamp: row.Timestamp,
		}
		if len(row.Metadata) > 0 {
			var metadata map[string]any
			if err := json.Unmarshal(row.Metadata, &metadata); err == nil {
				rec.Metadata = metadata
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
