package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/scoreforum/phorum/internal/model"
	"github.com/scoreforum/phorum/internal/slugs"
	"github.com/scoreforum/phorum/internal/sqlutil"
)

// CreateUser registers a user account.
func (s *Store) CreateUser(ctx context.Context, username, email string) (*model.User, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, created) VALUES (?, ?, ?)`,
		username, email, encodeTime(now))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.User{ID: id, Username: username, Email: email, Created: now}, nil
}

// UserByName looks up a user by username.
func (s *Store) UserByName(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, created FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.Email, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if u.Created, err = decodeTime(created); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateRoom inserts a room, filling Slug from Name and defaulting zero
// timestamps to the current time. A non-empty Password makes the room
// protected; password handling beyond storage (hashing, entry checks)
// belongs to the authentication layer.
func (s *Store) CreateRoom(ctx context.Context, room *model.Room) error {
	if room.Slug == "" {
		room.Slug = slugs.RoomSlug(room.Name)
	}
	if room.Created.IsZero() {
		room.Created = time.Now()
	}
	if room.PasswordChanged.IsZero() {
		room.PasswordChanged = room.Created
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (name, slug, author_id, moderator_id, password, password_changed, pinned, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		room.Name, room.Slug, room.AuthorID, room.ModeratorID, room.Password,
		encodeTime(room.PasswordChanged), room.Pinned, encodeTime(room.Created))
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	if room.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	return nil
}

// SetRoomPassword changes a room's password at the given time, which
// invalidates every keyring entry recorded before it.
func (s *Store) SetRoomPassword(ctx context.Context, roomID int64, password string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET password = ?, password_changed = ? WHERE id = ?`,
		password, encodeTime(at), roomID)
	if err != nil {
		return fmt.Errorf("set room password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// RoomBySlug looks up a room by its slug.
func (s *Store) RoomBySlug(ctx context.Context, slug string) (*model.Room, error) {
	rooms, err := s.queryRooms(ctx, "WHERE slug = ?", slug)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, ErrRoomNotFound
	}
	return rooms[0], nil
}

// Rooms lists all rooms, pinned first, then alphabetically.
func (s *Store) Rooms(ctx context.Context) ([]*model.Room, error) {
	return s.queryRooms(ctx, "ORDER BY pinned DESC, name ASC")
}

func (s *Store) queryRooms(ctx context.Context, tail string, args ...any) ([]*model.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, author_id, moderator_id, password, password_changed, pinned, created
		FROM rooms `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("room query: %w", err)
	}

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (*model.Room, error) {
		var r model.Room
		var pwChanged, created string
		err := rows.Scan(&r.ID, &r.Name, &r.Slug, &r.AuthorID, &r.ModeratorID,
			&r.Password, &pwChanged, &r.Pinned, &created)
		if err != nil {
			return nil, err
		}
		if r.PasswordChanged, err = decodeTime(pwChanged); err != nil {
			return nil, err
		}
		if r.Created, err = decodeTime(created); err != nil {
			return nil, err
		}
		return &r, nil
	})
}

// PostMessage inserts a message. A zero Created is filled with the current
// time. Posting a reply touches the thread root's last_reply; posting a
// root seeds last_reply with its own creation time.
func (s *Store) PostMessage(ctx context.Context, m *model.Message) error {
	if m.Created.IsZero() {
		m.Created = time.Now()
	}
	created := encodeTime(m.Created)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer tx.Rollback()

	var lastReply *string
	if m.ThreadID == nil {
		lastReply = &created
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO messages (thread_id, room_id, author_id, recipient_id, text, created, last_reply)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ThreadID, m.RoomID, m.AuthorID, m.RecipientID, m.Text, created, lastReply)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	if m.ThreadID != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE messages SET last_reply = ? WHERE id = ?`, created, *m.ThreadID); err != nil {
			return fmt.Errorf("update thread last_reply: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteMessage soft-deletes a message: it stays in the table but is
// excluded from search and listings.
func (s *Store) DeleteMessage(ctx context.Context, messageID, deletedByID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET deleted_by_id = ? WHERE id = ?`, deletedByID, messageID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// UnlockRoom records a successful password entry, upserting the keyring
// row. The entry stays valid until the room's password next changes.
func (s *Store) UnlockRoom(ctx context.Context, userID, roomID int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room_keyring (user_id, room_id, last_successful_entry)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, room_id) DO UPDATE SET last_successful_entry = excluded.last_successful_entry`,
		userID, roomID, encodeTime(at))
	if err != nil {
		return fmt.Errorf("unlock room: %w", err)
	}
	return nil
}

// RecordVisit upserts the user's last visit time for a room.
func (s *Store) RecordVisit(ctx context.Context, userID, roomID int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room_visits (user_id, room_id, visit_time)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, room_id) DO UPDATE SET visit_time = excluded.visit_time`,
		userID, roomID, encodeTime(at))
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// VisitsForUser returns, per visited room, how many messages were posted
// since the user's last visit.
func (s *Store) VisitsForUser(ctx context.Context, userID int64) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.room_id,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.room_id = v.room_id AND m.created > v.visit_time)
		FROM room_visits v
		WHERE v.user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("visit query: %w", err)
	}
	defer rows.Close()

	visits := make(map[int64]int)
	for rows.Next() {
		var roomID int64
		var newMessages int
		if err := rows.Scan(&roomID, &newMessages); err != nil {
			return nil, err
		}
		visits[roomID] = newMessages
	}
	return visits, rows.Err()
}

// MessageCount returns the number of non-deleted messages in a room.
func (s *Store) MessageCount(ctx context.Context, roomID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE room_id = ? AND deleted_by_id IS NULL`,
		roomID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("message count: %w", err)
	}
	return n, nil
}
