// Package model defines the forum entities shared across packages.
package model

import "time"

// User is a registered forum account.
type User struct {
	// ID uniquely identifies this user.
	ID int64 `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// Email is the contact address (may be empty).
	Email string `json:"email,omitempty"`

	// Created is when the account was registered.
	Created time.Time `json:"created"`
}

// Room is a public discussion board. A room with an empty Password is open
// to everyone; a protected room is visible only to users holding a valid
// keyring entry (see store.UnlockedRooms).
type Room struct {
	// ID uniquely identifies this room.
	ID int64 `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Slug is the URL-safe identifier derived from Name.
	Slug string `json:"slug"`

	// AuthorID is the creating user, nil for system rooms.
	AuthorID *int64 `json:"author_id,omitempty"`

	// ModeratorID is the moderating user, if any.
	ModeratorID *int64 `json:"moderator_id,omitempty"`

	// Password guards entry when non-empty. Stored as an opaque string;
	// hashing belongs to the authentication layer, not this core.
	Password string `json:"-"`

	// PasswordChanged is when Password was last set. Keyring entries older
	// than this are stale.
	PasswordChanged time.Time `json:"password_changed"`

	// Pinned rooms sort before the rest in listings.
	Pinned bool `json:"pinned"`

	// Created is when the room was created.
	Created time.Time `json:"created"`
}

// Protected reports whether entering the room requires a password.
func (r Room) Protected() bool { return r.Password != "" }

// Message is a public forum post. A message with a nil ThreadID is a thread
// root; replies point at the root via ThreadID.
type Message struct {
	// ID uniquely identifies this message.
	ID int64 `json:"id"`

	// ThreadID is the root message of the thread, nil if this message is
	// itself the root.
	ThreadID *int64 `json:"thread_id,omitempty"`

	// RoomID is the room this message was posted in.
	RoomID int64 `json:"room_id"`

	// AuthorID is the posting user.
	AuthorID int64 `json:"author_id"`

	// RecipientID is the addressed user, if the post was directed at one.
	RecipientID *int64 `json:"recipient_id,omitempty"`

	// Text is the message body as entered (markdown).
	Text string `json:"text"`

	// Created is when the message was posted.
	Created time.Time `json:"created"`

	// LastReply is the creation time of the newest reply in the thread.
	// Maintained on roots only.
	LastReply *time.Time `json:"last_reply,omitempty"`

	// DeletedByID marks the message soft-deleted when set. Soft-deleted
	// messages are invisible to search.
	DeletedByID *int64 `json:"deleted_by_id,omitempty"`

	// Author, Room and Recipient are attached by eager-loading fetches;
	// nil when the message was loaded without joins.
	Author    *User `json:"author,omitempty"`
	Room      *Room `json:"room,omitempty"`
	Recipient *User `json:"recipient,omitempty"`
}

// EffectiveThreadID returns the thread this message belongs to: ThreadID if
// set, otherwise the message's own ID (roots identify their own thread).
func (m Message) EffectiveThreadID() int64 {
	if m.ThreadID != nil {
		return *m.ThreadID
	}
	return m.ID
}

// Deleted reports whether the message has been soft-deleted.
func (m Message) Deleted() bool { return m.DeletedByID != nil }
