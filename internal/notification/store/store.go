package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/database"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var audienceQueries = map[notification.AudienceKind]string{
	notification.AudienceUser: `
		SELECT id FROM users
		WHERE organization_id = $1 AND id = $2 AND active`,
	notification.AudienceClient: `
		SELECT id FROM users
		WHERE organization_id = $1 AND client_id = $2 AND role = 'client' AND active`,
	notification.AudienceBranchAdmins: `
		SELECT id FROM users
		WHERE organization_id = $1 AND branch_id = $2 AND role IN ('admin', 'branch_admin') AND active`,
	notification.AudienceBranchStaff: `
		SELECT id FROM users
		WHERE organization_id = $1 AND branch_id = $2 AND role = 'carer' AND active`,
}

func (s *Store) ResolveAudience(ctx context.Context, orgID uuid.UUID, audience notification.Audience) ([]uuid.UUID, error) {
	query, ok := audienceQueries[audience.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown audience kind %q", audience.Kind)
	}

	var target uuid.UUID

	switch audience.Kind {
	case notification.AudienceUser:
		target = audience.UserID
	case notification.AudienceClient:
		target = audience.ClientID
	default:
		target = audience.BranchID
	}

	rows, err := s.db.QueryContext(ctx, query+" ORDER BY id", orgID, target)
	if err != nil {
		return nil, fmt.Errorf("resolving %s audience: %w", audience.Kind, err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user id: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (s *Store) VerifyAccounts(ctx context.Context, ids []uuid.UUID) ([]notification.Recipient, error) {
	query := `
		SELECT u.id, a.email, u.name
		FROM users u
		JOIN accounts a ON a.id = u.id
		WHERE u.id = ANY($1::uuid[]) AND a.disabled_at IS NULL
		ORDER BY u.id
	`

	rows, err := s.db.QueryContext(ctx, query, database.UUIDArray(ids))
	if err != nil {
		return nil, fmt.Errorf("verifying accounts: %w", err)
	}
	defer rows.Close()

	var out []notification.Recipient

	for rows.Next() {
		var r notification.Recipient
		if err := rows.Scan(&r.UserID, &r.Email, &r.Name); err != nil {
			return nil, fmt.Errorf("scanning recipient: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

const insertColumns = 9

// InsertNotifications writes all rows in one statement. Rows already present
// for the same (event_id, user_id) are skipped and not counted.
func (s *Store) InsertNotifications(ctx context.Context, notes []*notification.Notification) (int64, error) {
	if len(notes) == 0 {
		return 0, nil
	}

	var sb strings.Builder

	sb.WriteString(`INSERT INTO notifications
		(organization_id, user_id, event_id, type, category, priority, title, message, data)
		VALUES `)

	args := make([]any, 0, len(notes)*insertColumns)

	for i, n := range notes {
		data, err := json.Marshal(n.Data)
		if err != nil {
			return 0, fmt.Errorf("encoding notification data: %w", err)
		}

		if i > 0 {
			sb.WriteString(", ")
		}

		base := i * insertColumns
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)

		args = append(args,
			n.OrganizationID, n.UserID, n.EventID, n.Type, n.Category, string(n.Priority), n.Title, n.Message, string(data))
	}

	sb.WriteString(" ON CONFLICT (event_id, user_id) DO NOTHING")

	res, err := s.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("inserting notifications: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}

	return n, nil
}

func (s *Store) List(ctx context.Context, filter notification.ListFilter) ([]*notification.Notification, error) {
	query := `
		SELECT id, organization_id, user_id, event_id, type, category, priority, title, message, data, read_at, created_at
		FROM notifications
		WHERE user_id = $1`

	if filter.UnreadOnly {
		query += " AND read_at IS NULL"
	}

	query += " ORDER BY created_at DESC, id LIMIT $2"

	rows, err := s.db.QueryContext(ctx, query, filter.UserID, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*notification.Notification

	for rows.Next() {
		var (
			n    notification.Notification
			data []byte
		)

		if err := rows.Scan(
			&n.ID, &n.OrganizationID, &n.UserID, &n.EventID, &n.Type, &n.Category, &n.Priority,
			&n.Title, &n.Message, &data, &n.ReadAt, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("decoding notification data: %w", err)
		}

		out = append(out, &n)
	}

	return out, rows.Err()
}

func (s *Store) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	query := `UPDATE notifications SET read_at = COALESCE(read_at, $1) WHERE id = $2 AND user_id = $3`

	res, err := s.db.ExecContext(ctx, query, at, id, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return notification.ErrNotFound
	}

	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	query := `UPDATE notifications SET read_at = $1 WHERE user_id = $2 AND read_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, at, userID)
	if err != nil {
		return 0, fmt.Errorf("marking all notifications read: %w", err)
	}

	return res.RowsAffected()
}
