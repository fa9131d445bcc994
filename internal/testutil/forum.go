// Package testutil provides a seeded forum database for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/scoreforum/phorum/internal/model"
	"github.com/scoreforum/phorum/internal/store"
)

// TestForum wraps a temporary forum store with convenience seeding helpers.
// All helpers fail the test on error.
type TestForum struct {
	t     *testing.T
	Store *store.Store

	// Clock is advanced by one second per posted message so creation
	// timestamps are strictly ordered and deterministic.
	Clock time.Time
}

// NewForum creates a forum database in a temporary directory.
func NewForum(t *testing.T) *TestForum {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "forum.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return &TestForum{
		t:     t,
		Store: s,
		Clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Tick advances the fixture clock and returns the new time.
func (f *TestForum) Tick() time.Time {
	f.Clock = f.Clock.Add(time.Second)
	return f.Clock
}

// User creates a user.
func (f *TestForum) User(username string) *model.User {
	f.t.Helper()
	u, err := f.Store.CreateUser(context.Background(), username, username+"@example.com")
	if err != nil {
		f.t.Fatalf("failed to create user %s: %v", username, err)
	}
	return u
}

// Room creates an open room.
func (f *TestForum) Room(name string) *model.Room {
	f.t.Helper()
	return f.roomWithPassword(name, "")
}

// ProtectedRoom creates a password-protected room.
func (f *TestForum) ProtectedRoom(name, password string) *model.Room {
	f.t.Helper()
	if password == "" {
		f.t.Fatalf("protected room %s needs a password", name)
	}
	return f.roomWithPassword(name, password)
}

func (f *TestForum) roomWithPassword(name, password string) *model.Room {
	f.t.Helper()
	r := &model.Room{Name: name, Password: password, Created: f.Tick()}
	if err := f.Store.CreateRoom(context.Background(), r); err != nil {
		f.t.Fatalf("failed to create room %s: %v", name, err)
	}
	return r
}

// Post creates a thread root in room and returns it.
func (f *TestForum) Post(room *model.Room, author *model.User, text string) *model.Message {
	f.t.Helper()
	return f.post(nil, room, author, text)
}

// Reply posts a reply to the given thread root.
func (f *TestForum) Reply(root *model.Message, author *model.User, text string) *model.Message {
	f.t.Helper()
	rootID := root.EffectiveThreadID()
	return f.post(&rootID, root.Room, author, text)
}

func (f *TestForum) post(threadID *int64, room *model.Room, author *model.User, text string) *model.Message {
	f.t.Helper()
	if room == nil {
		f.t.Fatal("post needs a room")
	}

	m := &model.Message{
		ThreadID: threadID,
		RoomID:   room.ID,
		AuthorID: author.ID,
		Text:     text,
		Created:  f.Tick(),
		Room:     room,
		Author:   author,
	}
	if err := f.Store.PostMessage(context.Background(), m); err != nil {
		f.t.Fatalf("failed to post message: %v", err)
	}
	return m
}

// Delete soft-deletes a message.
func (f *TestForum) Delete(m *model.Message, by *model.User) {
	f.t.Helper()
	if err := f.Store.DeleteMessage(context.Background(), m.ID, by.ID); err != nil {
		f.t.Fatalf("failed to delete message: %v", err)
	}
}

// Unlock records a successful room password entry for the user at the
// current fixture time.
func (f *TestForum) Unlock(user *model.User, room *model.Room) {
	f.t.Helper()
	if err := f.Store.UnlockRoom(context.Background(), user.ID, room.ID, f.Tick()); err != nil {
		f.t.Fatalf("failed to unlock room: %v", err)
	}
}
