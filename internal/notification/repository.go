package notification

import (
	"database/sql"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

var ErrNotFound = errors.New("notification not found")

// execer is satisfied by both *sql.DB and *sql.Tx so notifications
// can be created inside a caller's transaction.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the notification record. Pass a *sql.Tx so the record
// commits or rolls back with the rest of the caller's unit of work.
func (r *Repository) Create(e execer, recipientID, notificationType, title, body, link string) (Notification, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return Notification{}, err
	}
	now := time.Now().UTC()
	_, err = e.Exec(
		`INSERT INTO notification (id, recipient_id, notification_type, title, body, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)`,
		id.String(), recipientID, notificationType, title, body, link, now,
	)
	if err != nil {
		return Notification{}, err
	}
	return Notification{
		ID:          id.String(),
		RecipientID: recipientID,
		Type:        notificationType,
		Title:       title,
		Body:        body,
		Link:        link,
		CreatedAt:   now,
	}, nil
}

func (r *Repository) ListForUser(userID string, unreadOnly bool, limit int) ([]Notification, error) {
	if limit < 1 {
		limit = 50
	}
	query := `SELECT id, recipient_id, notification_type, title, body, link, is_read, read_at, created_at
		FROM notification WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	// unread first, newest first within each group
	query += ` ORDER BY is_read ASC, created_at DESC LIMIT $2`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	notifications := []Notification{}
	for rows.Next() {
		var n Notification
		var link sql.NullString
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Body, &link, &n.IsRead, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Link = link.String
		if readAt.Valid {
			t := readAt.Time
			n.ReadAt = &t
		}
		n.CreatedAtHumanised = humanize.Time(n.CreatedAt)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *Repository) UnreadCount(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notification WHERE recipient_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	return count, err
}

// MarkRead flips the read flag. Re-reading an already read notification
// is a no-op and keeps the original read_at stamp.
func (r *Repository) MarkRead(id, userID string) error {
	res, err := r.db.Exec(
		`UPDATE notification SET is_read = TRUE, read_at = COALESCE(read_at, $1) WHERE id = $2 AND recipient_id = $3`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
