package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, orgID uuid.UUID, rawDescription string) (string, error) {
	query := `
		SELECT category
		FROM category_rules
		WHERE organization_id = $1 AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, orgID, rawDescription).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return category, nil
}

func (s *Store) CreateRule(ctx context.Context, orgID uuid.UUID, rawPattern, category string) (*matching.Rule, error) {
	query := `
		INSERT INTO category_rules (organization_id, raw_pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (organization_id, raw_pattern) DO UPDATE SET category = EXCLUDED.category
		RETURNING id, organization_id, raw_pattern, category, created_at
	`

	var r matching.Rule
	if err := s.db.QueryRowContext(ctx, query, orgID, rawPattern, category).
		Scan(&r.ID, &r.OrganizationID, &r.RawPattern, &r.Category, &r.CreatedAt); err != nil {
		return nil, fmt.Errorf("creating rule: %w", err)
	}

	return &r, nil
}

func (s *Store) ListRules(ctx context.Context, orgID uuid.UUID) ([]*matching.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, raw_pattern, category, created_at
		FROM category_rules
		WHERE organization_id = $1
		ORDER BY raw_pattern`, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*matching.Rule

	for rows.Next() {
		var r matching.Rule
		if err := rows.Scan(&r.ID, &r.OrganizationID, &r.RawPattern, &r.Category, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, &r)
	}

	return rules, rows.Err()
}

func (s *Store) DeleteRule(ctx context.Context, orgID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM category_rules WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return matching.ErrRuleNotFound
	}

	return nil
}
