package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/konekt-network/konekt/internal/domain"
)

// ─── Registration Drafts ────────────────────────────────────────────────────

// SaveDraft upserts a registration draft.
func (d *DB) SaveDraft(ctx context.Context, draft domain.Draft) error {
	account, err := encodeStep(draft.Account)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	profile, err := encodeStep(draft.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	interests, err := encodeStep(draft.Interests)
	if err != nil {
		return fmt.Errorf("encode interests: %w", err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO registration_drafts (id, user_id, stage, account, profile, interests, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			stage=excluded.stage,
			account=excluded.account,
			profile=excluded.profile,
			interests=excluded.interests,
			updated_at=excluded.updated_at`,
		draft.ID, draft.UserID, string(draft.Stage), account, profile, interests,
		draft.CreatedAt.Unix(), draft.UpdatedAt.Unix(),
	)
	return err
}

// LoadDraft retrieves a draft by ID.
func (d *DB) LoadDraft(ctx context.Context, id string) (domain.Draft, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, user_id, stage, account, profile, interests, created_at, updated_at
		 FROM registration_drafts WHERE id = ?`, id,
	)
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	return draft, err
}

func scanDraft(s scanner) (domain.Draft, error) {
	var draft domain.Draft
	var stage string
	var account, profile, interests sql.NullString
	var createdAt, updatedAt int64

	err := s.Scan(&draft.ID, &draft.UserID, &stage, &account, &profile, &interests, &createdAt, &updatedAt)
	if err != nil {
		return draft, err
	}
	draft.Stage = domain.Stage(stage)
	draft.CreatedAt = time.Unix(createdAt, 0)
	draft.UpdatedAt = time.Unix(updatedAt, 0)

	if draft.Account, err = decodeStep[domain.AccountStep](account); err != nil {
		return draft, fmt.Errorf("decode account: %w", err)
	}
	if draft.Profile, err = decodeStep[domain.ProfileStep](profile); err != nil {
		return draft, fmt.Errorf("decode profile: %w", err)
	}
	if draft.Interests, err = decodeStep[domain.InterestsStep](interests); err != nil {
		return draft, fmt.Errorf("decode interests: %w", err)
	}
	return draft, nil
}

func encodeStep[T any](step *T) (sql.NullString, error) {
	if step == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(step)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeStep[T any](col sql.NullString) (*T, error) {
	if !col.Valid {
		return nil, nil
	}
	var step T
	if err := json.Unmarshal([]byte(col.String), &step); err != nil {
		return nil, err
	}
	return &step, nil
}
