package search

import (
	"context"
	"fmt"
	"time"

	"github.com/scoreforum/phorum/internal/model"
)

// ThreadMatch is one matching thread: all matching messages in the thread
// collapse into a single entry carrying the newest match's creation time,
// which drives ordering and pagination.
type ThreadMatch struct {
	ThreadID    int64     `json:"thread_id"`
	NewestMatch time.Time `json:"newest_match"`
}

// Visibility is the room-access scope a query runs under. Open rooms
// (empty password) are always in scope; UnlockedRoomIDs adds the protected
// rooms the requesting user currently holds valid keys for. The zero value
// is the anonymous scope: open rooms only.
type Visibility struct {
	UnlockedRoomIDs []int64
}

// MessageStore is the query surface the executor needs from the message
// store. Every method must enforce vis by query construction: a message
// outside the visibility scope never reaches the caller. Implementations
// evaluate patterns with diacritics-insensitive, case-insensitive,
// word-boundary regex semantics in the BoundaryStore dialect.
type MessageStore interface {
	// ThreadMatches returns threads with at least one non-deleted, visible
	// message matching all patterns, newest match first. No patterns means
	// no text filter.
	ThreadMatches(ctx context.Context, patterns []string, vis Visibility) ([]ThreadMatch, error)

	// ReplyIDs returns, per thread, the non-root messages in threadIDs
	// matching all patterns.
	ReplyIDs(ctx context.Context, patterns []string, threadIDs []int64, vis Visibility) (map[int64][]int64, error)

	// MessagesByID fetches full message records in one batch, author, room
	// and recipient attached, ordered by creation time ascending.
	MessagesByID(ctx context.Context, ids []int64) ([]*model.Message, error)
}

// KeyringLookup resolves which protected rooms a user has currently
// unlocked. A key is valid only until the room's password next changes.
type KeyringLookup interface {
	UnlockedRooms(ctx context.Context, userID int64) ([]int64, error)
}

// Service runs access-scoped searches against an injected message store.
// It is stateless and safe for concurrent use.
type Service struct {
	store   MessageStore
	keyring KeyringLookup
}

// NewService creates a search service over the given store and keyring.
func NewService(store MessageStore, keyring KeyringLookup) *Service {
	return &Service{store: store, keyring: keyring}
}

// Search returns the threads matching query that user may see, newest match
// first. All tokens must match each message independently, in any order.
//
// An empty query applies no text filter: every visible, non-deleted thread
// is returned. A nil user is anonymous and sees open rooms only.
func (s *Service) Search(ctx context.Context, query string, user *model.User) ([]ThreadMatch, error) {
	vis, err := s.visibility(ctx, user)
	if err != nil {
		return nil, err
	}

	matches, err := s.store.ThreadMatches(ctx, Patterns(query, BoundaryStore), vis)
	if err != nil {
		return nil, fmt.Errorf("search threads: %w", err)
	}
	return matches, nil
}

// MatchingReplyIDs returns which replies matched, restricted to threadIDs.
// Callers pass only the thread ids on the page being displayed so off-page
// rows are never fetched.
func (s *Service) MatchingReplyIDs(ctx context.Context, query string, threadIDs []int64, user *model.User) (map[int64][]int64, error) {
	if len(threadIDs) == 0 {
		return map[int64][]int64{}, nil
	}

	vis, err := s.visibility(ctx, user)
	if err != nil {
		return nil, err
	}

	ids, err := s.store.ReplyIDs(ctx, Patterns(query, BoundaryStore), threadIDs, vis)
	if err != nil {
		return nil, fmt.Errorf("search replies: %w", err)
	}
	return ids, nil
}

// FetchMatchingReplies resolves reply ids into full message records in a
// single batched fetch, grouped by thread, ascending by creation time
// within each thread. replyIDs is the index from MatchingReplyIDs; only
// entries for threadIDs are fetched.
func (s *Service) FetchMatchingReplies(ctx context.Context, threadIDs []int64, replyIDs map[int64][]int64) (map[int64][]*model.Message, error) {
	var ids []int64
	for _, threadID := range threadIDs {
		ids = append(ids, replyIDs[threadID]...)
	}
	if len(ids) == 0 {
		return map[int64][]*model.Message{}, nil
	}

	messages, err := s.store.MessagesByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch replies: %w", err)
	}

	byThread := make(map[int64][]*model.Message)
	for _, msg := range messages {
		threadID := msg.EffectiveThreadID()
		byThread[threadID] = append(byThread[threadID], msg)
	}
	return byThread, nil
}

func (s *Service) visibility(ctx context.Context, user *model.User) (Visibility, error) {
	if user == nil {
		return Visibility{}, nil
	}
	unlocked, err := s.keyring.UnlockedRooms(ctx, user.ID)
	if err != nil {
		return Visibility{}, fmt.Errorf("keyring lookup: %w", err)
	}
	return Visibility{UnlockedRoomIDs: unlocked}, nil
}
