package search

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/scoreforum/phorum/internal/model"
)

type fakeStore struct {
	threadMatches []ThreadMatch
	replyIDs      map[int64][]int64
	messages      []*model.Message

	gotPatterns  []string
	gotVis       Visibility
	gotThreadIDs []int64
	gotFetchIDs  []int64
}

func (f *fakeStore) ThreadMatches(ctx context.Context, patterns []string, vis Visibility) ([]ThreadMatch, error) {
	f.gotPatterns = patterns
	f.gotVis = vis
	return f.threadMatches, nil
}

func (f *fakeStore) ReplyIDs(ctx context.Context, patterns []string, threadIDs []int64, vis Visibility) (map[int64][]int64, error) {
	f.gotPatterns = patterns
	f.gotThreadIDs = threadIDs
	f.gotVis = vis
	return f.replyIDs, nil
}

func (f *fakeStore) MessagesByID(ctx context.Context, ids []int64) ([]*model.Message, error) {
	f.gotFetchIDs = ids
	return f.messages, nil
}

type fakeKeyring struct {
	unlocked map[int64][]int64
	err      error
}

func (f *fakeKeyring) UnlockedRooms(ctx context.Context, userID int64) ([]int64, error) {
	return f.unlocked[userID], f.err
}

func int64p(v int64) *int64 { return &v }

func TestSearchCompilesStoreDialectPatterns(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeKeyring{})

	if _, err := svc.Search(context.Background(), `"cat chases" dog`, nil); err != nil {
		t.Fatal(err)
	}

	want := []string{`\ycat chases\y`, `\ydog\y`}
	if !reflect.DeepEqual(store.gotPatterns, want) {
		t.Fatalf("patterns = %v, want %v", store.gotPatterns, want)
	}
}

func TestSearchAnonymousVisibility(t *testing.T) {
	store := &fakeStore{}
	keyring := &fakeKeyring{unlocked: map[int64][]int64{7: {3, 4}}}
	svc := NewService(store, keyring)

	if _, err := svc.Search(context.Background(), "cat", nil); err != nil {
		t.Fatal(err)
	}
	if len(store.gotVis.UnlockedRoomIDs) != 0 {
		t.Fatalf("anonymous search must carry no unlocked rooms, got %v", store.gotVis.UnlockedRoomIDs)
	}
}

func TestSearchUserVisibility(t *testing.T) {
	store := &fakeStore{}
	keyring := &fakeKeyring{unlocked: map[int64][]int64{7: {3, 4}}}
	svc := NewService(store, keyring)

	user := &model.User{ID: 7, Username: "alice"}
	if _, err := svc.Search(context.Background(), "cat", user); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(store.gotVis.UnlockedRoomIDs, []int64{3, 4}) {
		t.Fatalf("unlocked rooms = %v, want [3 4]", store.gotVis.UnlockedRoomIDs)
	}
}

func TestSearchKeyringFailurePropagates(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeKeyring{err: errors.New("db down")})

	_, err := svc.Search(context.Background(), "cat", &model.User{ID: 1})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSearchEmptyQueryAppliesNoTextFilter(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeKeyring{})

	if _, err := svc.Search(context.Background(), "", nil); err != nil {
		t.Fatal(err)
	}
	if len(store.gotPatterns) != 0 {
		t.Fatalf("empty query must produce no patterns, got %v", store.gotPatterns)
	}
}

func TestMatchingReplyIDsEmptyThreads(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeKeyring{})

	got, err := svc.MatchingReplyIDs(context.Background(), "cat", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	if store.gotThreadIDs != nil {
		t.Fatal("store must not be queried for zero threads")
	}
}

func TestFetchMatchingRepliesGroupsAndFilters(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		messages: []*model.Message{
			{ID: 11, ThreadID: int64p(1), Created: created},
			{ID: 12, ThreadID: int64p(1), Created: created.Add(time.Hour)},
			{ID: 21, ThreadID: int64p(2), Created: created},
		},
	}
	svc := NewService(store, &fakeKeyring{})

	replyIDs := map[int64][]int64{
		1: {11, 12},
		2: {21},
		3: {31}, // off-page thread, must not be fetched
	}

	got, err := svc.FetchMatchingReplies(context.Background(), []int64{1, 2}, replyIDs)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(store.gotFetchIDs, []int64{11, 12, 21}) {
		t.Fatalf("fetched ids = %v, want [11 12 21]", store.gotFetchIDs)
	}
	if len(got[1]) != 2 || len(got[2]) != 1 {
		t.Fatalf("grouping wrong: %v", got)
	}
	if got[1][0].ID != 11 || got[1][1].ID != 12 {
		t.Fatalf("replies not in creation order: %v", got[1])
	}
}

func TestFetchMatchingRepliesNoIDs(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeKeyring{})

	got, err := svc.FetchMatchingReplies(context.Background(), []int64{1}, map[int64][]int64{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	if store.gotFetchIDs != nil {
		t.Fatal("store must not be queried for zero replies")
	}
}
