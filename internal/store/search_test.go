package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/scoreforum/phorum/internal/model"
	"github.com/scoreforum/phorum/internal/search"
	"github.com/scoreforum/phorum/internal/testutil"
)

func newService(f *testutil.TestForum) *search.Service {
	return search.NewService(f.Store, f.Store)
}

func threadIDs(matches []search.ThreadMatch) []int64 {
	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.ThreadID
	}
	return ids
}

func TestSearchEndToEnd(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	room := f.Room("General")

	hit := f.Post(room, alice, "the cat chases a dog today")
	reply := f.Reply(hit, alice, "CAT CHASES the DOG")
	miss := f.Post(room, alice, "cat runs from dog")

	matches, err := svc.Search(ctx, `"cat chases" dog`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ThreadID != hit.ID {
		t.Fatalf("expected thread %d only, got %v", hit.ID, matches)
	}
	// The reply matched too, so the thread carries the reply's timestamp.
	if !matches[0].NewestMatch.Equal(reply.Created) {
		t.Errorf("newest match = %v, want %v", matches[0].NewestMatch, reply.Created)
	}

	replyIDs, err := svc.MatchingReplyIDs(ctx, `"cat chases" dog`, threadIDs(matches), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(replyIDs[hit.ID]) != 1 || replyIDs[hit.ID][0] != reply.ID {
		t.Fatalf("expected reply %d, got %v", reply.ID, replyIDs)
	}

	_ = miss // present to prove the broken phrase does not match
}

func TestSearchTokenOrderIndependent(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	room := f.Room("General")
	msg := f.Post(room, alice, "the dog barks at the cat")

	for _, query := range []string{"cat dog", "dog cat"} {
		matches, err := svc.Search(ctx, query, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 1 || matches[0].ThreadID != msg.ID {
			t.Fatalf("query %q: got %v, want thread %d", query, matches, msg.ID)
		}
	}

	// All tokens must match: a message with only one of them does not count.
	f.Post(room, alice, "just a cat")
	matches, err := svc.Search(ctx, "cat dog", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("AND semantics violated: %v", matches)
	}
}

func TestSearchWildcards(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	room := f.Room("General")

	exact := f.Post(room, alice, "koko stoji na strome")
	prefix := f.Post(room, alice, "rekne kokoliv co chce")
	f.Post(room, alice, "ale mykoko nikdy")

	matches, err := svc.Search(ctx, "koko*", nil)
	if err != nil {
		t.Fatal(err)
	}
	got := threadIDs(matches)
	if len(got) != 2 {
		t.Fatalf("koko* should match exactly 2 threads, got %v", got)
	}
	// Newest match first.
	if got[0] != prefix.ID || got[1] != exact.ID {
		t.Fatalf("ordering wrong: got %v, want [%d %d]", got, prefix.ID, exact.ID)
	}
}

func TestSearchDiacriticsInsensitive(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	room := f.Room("General")

	plain := f.Post(room, alice, "moje kocka spi")
	accented := f.Post(room, alice, "moje kočka spí")

	// Accented query matches plain text.
	matches, err := svc.Search(ctx, "kočka", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("kočka should match both messages, got %v", matches)
	}

	// Plain query matches accented text.
	matches, err = svc.Search(ctx, "kocka", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("kocka should match both messages, got %v", matches)
	}

	_, _ = plain, accented
}

func TestSearchCollapsesThreads(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	room := f.Room("General")

	root := f.Post(room, alice, "cat in the root")
	f.Reply(root, alice, "no match here")
	lastHit := f.Reply(root, alice, "another cat reply")

	matches, err := svc.Search(ctx, "cat", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("thread must appear exactly once, got %v", matches)
	}
	if matches[0].ThreadID != root.ID {
		t.Errorf("thread id = %d, want %d", matches[0].ThreadID, root.ID)
	}
	if !matches[0].NewestMatch.Equal(lastHit.Created) {
		t.Errorf("newest match = %v, want %v", matches[0].NewestMatch, lastHit.Created)
	}
}

func TestSearchExcludesDeleted(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	room := f.Room("General")

	msg := f.Post(room, alice, "a deleted cat")
	f.Delete(msg, alice)

	matches, err := svc.Search(ctx, "cat", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("deleted messages must not match, got %v", matches)
	}
}

func TestSearchProtectedRoomVisibility(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	bob := f.User("bob")
	secret := f.ProtectedRoom("Secret", "hunter2")
	f.Post(secret, alice, "the hidden cat")

	// Anonymous users never see protected rooms.
	matches, err := svc.Search(ctx, "cat", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatal("anonymous search must not reach protected rooms")
	}

	// A user without a key sees nothing either.
	matches, err = svc.Search(ctx, "cat", bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatal("locked room leaked into search results")
	}

	// Entering the room makes its threads searchable.
	f.Unlock(bob, secret)
	matches, err = svc.Search(ctx, "cat", bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("unlocked room should be searchable, got %v", matches)
	}
}

func TestSearchKeyGoesStaleOnPasswordChange(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	secret := f.ProtectedRoom("Secret", "hunter2")
	f.Post(secret, alice, "the hidden cat")
	f.Unlock(alice, secret)

	if err := f.Store.SetRoomPassword(ctx, secret.ID, "hunter3", f.Tick()); err != nil {
		t.Fatal(err)
	}

	matches, err := svc.Search(ctx, "cat", alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatal("stale key must not grant search visibility")
	}

	// Re-entering with the new password restores access.
	f.Unlock(alice, secret)
	matches, err = svc.Search(ctx, "cat", alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("fresh key should restore visibility, got %v", matches)
	}
}

func TestSearchEmptyQueryReturnsAllVisible(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	open := f.Room("Open")
	secret := f.ProtectedRoom("Secret", "pw")
	f.Post(open, alice, "visible thread")
	f.Post(secret, alice, "hidden thread")

	matches, err := svc.Search(ctx, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("empty query should list all visible threads, got %v", matches)
	}
}

func TestFetchMatchingRepliesEagerLoads(t *testing.T) {
	f := testutil.NewForum(t)
	svc := newService(f)
	ctx := context.Background()

	alice := f.User("alice")
	bob := f.User("bob")
	room := f.Room("General")

	root := f.Post(room, alice, "cat thread root")
	first := f.Reply(root, bob, "first cat reply")
	second := f.Reply(root, alice, "second cat reply")

	replyIDs, err := svc.MatchingReplyIDs(ctx, "cat", []int64{root.ID}, nil)
	if err != nil {
		t.Fatal(err)
	}
	byThread, err := svc.FetchMatchingReplies(ctx, []int64{root.ID}, replyIDs)
	if err != nil {
		t.Fatal(err)
	}

	replies := byThread[root.ID]
	if len(replies) != 2 {
		t.Fatalf("expected 2 replies, got %v", replies)
	}
	if replies[0].ID != first.ID || replies[1].ID != second.ID {
		t.Fatalf("replies not in creation order: %d, %d", replies[0].ID, replies[1].ID)
	}
	if replies[0].Author == nil || replies[0].Author.Username != "bob" {
		t.Errorf("author not eagerly loaded: %+v", replies[0].Author)
	}
	if replies[0].Room == nil || replies[0].Room.Slug != "general" {
		t.Errorf("room not eagerly loaded: %+v", replies[0].Room)
	}
}

func TestMessagesByIDAttachesRecipient(t *testing.T) {
	f := testutil.NewForum(t)
	ctx := context.Background()

	alice := f.User("alice")
	bob := f.User("bob")
	room := f.Room("General")

	m := &model.Message{
		RoomID:      room.ID,
		AuthorID:    alice.ID,
		RecipientID: &bob.ID,
		Text:        "for bob's eyes",
		Created:     time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := f.Store.PostMessage(ctx, m); err != nil {
		t.Fatal(err)
	}

	fetched, err := f.Store.MessagesByID(ctx, []int64{m.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fetched))
	}
	if fetched[0].Recipient == nil || fetched[0].Recipient.Username != "bob" {
		t.Errorf("recipient not attached: %+v", fetched[0].Recipient)
	}
}
