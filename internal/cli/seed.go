package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scoreforum/phorum/internal/model"
	"github.com/scoreforum/phorum/internal/store"
	"github.com/scoreforum/phorum/internal/ui"
)

// seedFixtures is the YAML fixture file layout:
//
//	users:
//	  - name: alice
//	    email: alice@example.com
//	rooms:
//	  - name: General
//	    pinned: true
//	  - name: Secret
//	    password: hunter2
//	messages:
//	  - room: General
//	    author: alice
//	    text: hello there
//	    to: bob
//	    replies:
//	      - author: bob
//	        text: hi back
type seedFixtures struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"users"`
	Rooms []struct {
		Name     string `yaml:"name"`
		Password string `yaml:"password"`
		Pinned   bool   `yaml:"pinned"`
	} `yaml:"rooms"`
	Messages []seedMessage `yaml:"messages"`
}

type seedMessage struct {
	Room    string        `yaml:"room"`
	Author  string        `yaml:"author"`
	To      string        `yaml:"to"`
	Text    string        `yaml:"text"`
	Replies []seedMessage `yaml:"replies"`
}

type seedStats struct {
	Users    int `json:"users"`
	Rooms    int `json:"rooms"`
	Messages int `json:"messages"`
}

// seedForum loads fixture data into the store. Timestamps advance one second
// per record from base so ordering is stable.
func seedForum(ctx context.Context, s *store.Store, data []byte, base time.Time) (seedStats, error) {
	var fx seedFixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return seedStats{}, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	var stats seedStats
	clock := base
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	users := make(map[string]*model.User)
	for _, u := range fx.Users {
		created, err := s.CreateUser(ctx, u.Name, u.Email)
		if err != nil {
			return stats, fmt.Errorf("failed to create user %q: %w", u.Name, err)
		}
		users[u.Name] = created
		stats.Users++
	}

	rooms := make(map[string]*model.Room)
	for _, r := range fx.Rooms {
		room := &model.Room{
			Name:     r.Name,
			Password: r.Password,
			Pinned:   r.Pinned,
			Created:  tick(),
		}
		if err := s.CreateRoom(ctx, room); err != nil {
			return stats, fmt.Errorf("failed to create room %q: %w", r.Name, err)
		}
		rooms[r.Name] = room
		stats.Rooms++
	}

	for _, m := range fx.Messages {
		if err := postSeedMessage(ctx, s, users, rooms, m, nil, tick, &stats); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func postSeedMessage(ctx context.Context, s *store.Store, users map[string]*model.User, rooms map[string]*model.Room, m seedMessage, thread *model.Message, tick func() time.Time, stats *seedStats) error {
	author, ok := users[m.Author]
	if !ok {
		return fmt.Errorf("message references unknown user %q", m.Author)
	}

	msg := &model.Message{
		AuthorID: author.ID,
		Text:     m.Text,
		Created:  tick(),
	}

	if thread != nil {
		msg.RoomID = thread.RoomID
		threadID := thread.ID
		msg.ThreadID = &threadID
	} else {
		room, ok := rooms[m.Room]
		if !ok {
			return fmt.Errorf("message references unknown room %q", m.Room)
		}
		msg.RoomID = room.ID
	}

	if m.To != "" {
		recipient, ok := users[m.To]
		if !ok {
			return fmt.Errorf("message references unknown recipient %q", m.To)
		}
		msg.RecipientID = &recipient.ID
	}

	if err := s.PostMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	stats.Messages++

	for _, reply := range m.Replies {
		if err := postSeedMessage(ctx, s, users, rooms, reply, msg, tick, stats); err != nil {
			return err
		}
	}

	return nil
}

var seedCmd = &cobra.Command{
	Use:   "seed <fixtures.yaml>",
	Short: "Load users, rooms and messages from a YAML fixture file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return handleError("read_failed", fmt.Errorf("failed to read fixtures: %w", err), "")
		}

		s, err := openStore()
		if err != nil {
			return handleError("open_failed", err, "")
		}
		defer s.Close()

		stats, err := seedForum(cmd.Context(), s, data, time.Now().UTC())
		if err != nil {
			return handleError("seed_failed", err, "")
		}

		if isJSONOutput() {
			outputSuccess(stats, nil)
			return nil
		}

		fmt.Println(ui.Successf("Seeded %d users, %d rooms, %d messages",
			stats.Users, stats.Rooms, stats.Messages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
