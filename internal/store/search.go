package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/scoreforum/phorum/internal/model"
	"github.com/scoreforum/phorum/internal/search"
	"github.com/scoreforum/phorum/internal/sqlutil"
)

// Store implements search.MessageStore and search.KeyringLookup. Room
// visibility and soft-delete exclusion are baked into the SQL itself; an
// invisible message never leaves the database layer.
var (
	_ search.MessageStore  = (*Store)(nil)
	_ search.KeyringLookup = (*Store)(nil)
)

// visibilitySQL returns the room-access condition and its args: a message
// is visible when its room is open or among the user's unlocked rooms.
func visibilitySQL(vis search.Visibility) (string, []any) {
	placeholders, args := sqlutil.InClauseArgs(vis.UnlockedRoomIDs)
	return "(r.password = '' OR m.room_id IN (" + placeholders + "))", args
}

// patternSQL appends one uregexp condition per pattern. All patterns must
// match (AND); no patterns means no text filter at all.
func patternSQL(conditions []string, args []any, patterns []string) ([]string, []any) {
	for _, p := range patterns {
		conditions = append(conditions, "uregexp(?, m.text)")
		args = append(args, p)
	}
	return conditions, args
}

// ThreadMatches returns every visible thread with at least one message
// matching all patterns, collapsed to one row per thread carrying the
// newest matching message's creation time, newest first.
func (s *Store) ThreadMatches(ctx context.Context, patterns []string, vis search.Visibility) ([]search.ThreadMatch, error) {
	visCond, args := visibilitySQL(vis)
	conditions := []string{"m.deleted_by_id IS NULL", visCond}
	conditions, args = patternSQL(conditions, args, patterns)

	query := fmt.Sprintf(`
		SELECT COALESCE(m.thread_id, m.id) AS thread_id, MAX(m.created) AS newest_match
		FROM messages m
		JOIN rooms r ON r.id = m.room_id
		WHERE %s
		GROUP BY COALESCE(m.thread_id, m.id)
		ORDER BY newest_match DESC
	`, strings.Join(conditions, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("thread match query: %w", err)
	}

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (search.ThreadMatch, error) {
		var m search.ThreadMatch
		var newest string
		if err := rows.Scan(&m.ThreadID, &newest); err != nil {
			return m, err
		}
		t, err := decodeTime(newest)
		if err != nil {
			return m, err
		}
		m.NewestMatch = t
		return m, nil
	})
}

// ReplyIDs returns the non-root messages in threadIDs matching all
// patterns, grouped by thread.
func (s *Store) ReplyIDs(ctx context.Context, patterns []string, threadIDs []int64, vis search.Visibility) (map[int64][]int64, error) {
	threadPh, threadArgs := sqlutil.InClauseArgs(threadIDs)
	visCond, visArgs := visibilitySQL(vis)

	conditions := []string{
		"m.deleted_by_id IS NULL",
		"m.thread_id IN (" + threadPh + ")",
		visCond,
	}
	args := append(threadArgs, visArgs...)
	conditions, args = patternSQL(conditions, args, patterns)

	query := fmt.Sprintf(`
		SELECT m.id, m.thread_id
		FROM messages m
		JOIN rooms r ON r.id = m.room_id
		WHERE %s
		ORDER BY m.created ASC
	`, strings.Join(conditions, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reply match query: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]int64)
	for rows.Next() {
		var id, threadID int64
		if err := rows.Scan(&id, &threadID); err != nil {
			return nil, err
		}
		result[threadID] = append(result[threadID], id)
	}
	return result, rows.Err()
}

// MessagesByID fetches full message records in one batch with author, room
// and recipient attached, ordered by creation time ascending.
func (s *Store) MessagesByID(ctx context.Context, ids []int64) ([]*model.Message, error) {
	placeholders, args := sqlutil.InClauseArgs(ids)

	query := fmt.Sprintf(`
		SELECT m.id, m.thread_id, m.room_id, m.author_id, m.recipient_id,
		       m.text, m.created, m.last_reply, m.deleted_by_id,
		       a.id, a.username, a.email, a.created,
		       r.id, r.name, r.slug, r.author_id, r.moderator_id,
		       r.password, r.password_changed, r.pinned, r.created,
		       rec.id, rec.username, rec.email, rec.created
		FROM messages m
		JOIN users a ON a.id = m.author_id
		JOIN rooms r ON r.id = m.room_id
		LEFT JOIN users rec ON rec.id = m.recipient_id
		WHERE m.id IN (%s)
		ORDER BY m.created ASC
	`, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("message fetch query: %w", err)
	}

	return sqlutil.ScanRows(rows, scanMessageWithRelations)
}

func scanMessageWithRelations(rows *sql.Rows) (*model.Message, error) {
	var (
		m         model.Message
		author    model.User
		room      model.Room
		created   string
		lastReply sql.NullString

		authorCreated string

		roomPwChanged string
		roomCreated   string

		recID       sql.NullInt64
		recUsername sql.NullString
		recEmail    sql.NullString
		recCreated  sql.NullString
	)

	err := rows.Scan(
		&m.ID, &m.ThreadID, &m.RoomID, &m.AuthorID, &m.RecipientID,
		&m.Text, &created, &lastReply, &m.DeletedByID,
		&author.ID, &author.Username, &author.Email, &authorCreated,
		&room.ID, &room.Name, &room.Slug, &room.AuthorID, &room.ModeratorID,
		&room.Password, &roomPwChanged, &room.Pinned, &roomCreated,
		&recID, &recUsername, &recEmail, &recCreated,
	)
	if err != nil {
		return nil, err
	}

	if m.Created, err = decodeTime(created); err != nil {
		return nil, err
	}
	if lastReply.Valid {
		t, err := decodeTime(lastReply.String)
		if err != nil {
			return nil, err
		}
		m.LastReply = &t
	}
	if author.Created, err = decodeTime(authorCreated); err != nil {
		return nil, err
	}
	if room.PasswordChanged, err = decodeTime(roomPwChanged); err != nil {
		return nil, err
	}
	if room.Created, err = decodeTime(roomCreated); err != nil {
		return nil, err
	}

	m.Author = &author
	m.Room = &room
	if recID.Valid {
		rec := model.User{ID: recID.Int64, Username: recUsername.String, Email: recEmail.String}
		if recCreated.Valid {
			if rec.Created, err = decodeTime(recCreated.String); err != nil {
				return nil, err
			}
		}
		m.Recipient = &rec
	}

	return &m, nil
}

// UnlockedRooms returns the protected rooms userID currently holds valid
// keys for. A key is stale, and the room locked again, once the room's
// password has changed after the recorded entry.
func (s *Store) UnlockedRooms(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT k.room_id
		FROM room_keyring k
		JOIN rooms r ON r.id = k.room_id
		WHERE k.user_id = ? AND k.last_successful_entry > r.password_changed
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("keyring query: %w", err)
	}

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	})
}
