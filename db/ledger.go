package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"printquote/core/determinism"
	"printquote/core/output"
	"printquote/core/types"
	perrors "printquote/internal/errors"
)

// Entry is one issued quote
type Entry struct {
	ID        uuid.UUID          `json:"id"`
	InputHash string             `json:"input_hash"`
	Reference string             `json:"reference,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Result    *types.QuoteResult `json:"result"`
}

// timestampLayout is fixed width so created_at sorts as text
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger records quotes that passed QA
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// NewLedger wraps an open, migrated database
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Record stores an issued quote. Quotes that failed QA are refused.
func (l *Ledger) Record(ctx context.Context, result *types.QuoteResult, reference string) (*Entry, error) {
	if !result.QA.Passed() {
		return nil, perrors.Wrap(perrors.TypeInput, "refusing to record a quote that failed QA", output.ErrWithheld).
			WithContext("failed_checks", result.QA.FailedCount)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, perrors.Internal("encode quote", err)
	}

	e := &Entry{
		ID:        uuid.New(),
		InputHash: determinism.InputHash(result.Specification).Hex(),
		Reference: reference,
		CreatedAt: l.now().UTC(),
		Result:    result,
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO quotes (id, input_hash, reference, product, quantity, total_cost, quote, payable, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(),
		e.InputHash,
		e.Reference,
		string(result.Specification.Product),
		result.Specification.Quantity,
		result.Costs.TotalCost.String(),
		result.Quote.String(),
		result.Payable().String(),
		string(data),
		e.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		return nil, perrors.Storage("insert quote", err)
	}
	return e, nil
}

// Get returns the entry with the given ID
func (l *Ledger) Get(ctx context.Context, id string) (*Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, perrors.NotFound("quote", id)
	}
	row := l.db.QueryRowContext(ctx, `
		SELECT id, input_hash, reference, result_json, created_at
		FROM quotes WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, perrors.NotFound("quote", id)
	}
	return e, err
}

// List returns up to limit entries, newest first
func (l *Ledger) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, input_hash, reference, result_json, created_at
		FROM quotes ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, perrors.Storage("list quotes", err)
	}
	return scanEntries(rows)
}

// FindByInputHash returns every entry quoted from an equivalent specification, newest first
func (l *Ledger) FindByInputHash(ctx context.Context, hash string) ([]*Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, input_hash, reference, result_json, created_at
		FROM quotes WHERE input_hash = ? ORDER BY created_at DESC, id`, hash)
	if err != nil {
		return nil, perrors.Storage("find quotes by input hash", err)
	}
	return scanEntries(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		id, created, data string
		e                 Entry
	)
	if err := s.Scan(&id, &e.InputHash, &e.Reference, &data, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, perrors.Storage("scan quote", err)
	}

	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, perrors.Storage("parse quote id", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, perrors.Storage("parse quote timestamp", err)
	}
	e.Result = &types.QuoteResult{}
	if err := json.Unmarshal([]byte(data), e.Result); err != nil {
		return nil, perrors.Storage("decode quote", err)
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, perrors.Storage("iterate quotes", err)
	}
	return entries, nil
}
