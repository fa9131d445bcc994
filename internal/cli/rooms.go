package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoreforum/phorum/internal/ui"
)

var roomsAsUser string

type roomRow struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Protected bool   `json:"protected"`
	Pinned    bool   `json:"pinned"`
	Messages  int    `json:"messages"`
	New       int    `json:"new,omitempty"`
}

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List rooms with message counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore()
		if err != nil {
			return handleError("open_failed", err, "")
		}
		defer s.Close()

		user, err := lookupUser(ctx, s, roomsAsUser)
		if err != nil {
			return handleError("unknown_user", err, "Run 'phorum rooms' without --as to list anonymously")
		}

		rooms, err := s.Rooms(ctx)
		if err != nil {
			return handleError("query_failed", err, "")
		}

		visits := map[int64]int{}
		if user != nil {
			visits, err = s.VisitsForUser(ctx, user.ID)
			if err != nil {
				return handleError("query_failed", err, "")
			}
		}

		rows := make([]roomRow, 0, len(rooms))
		for _, room := range rooms {
			count, err := s.MessageCount(ctx, room.ID)
			if err != nil {
				return handleError("query_failed", err, "")
			}
			rows = append(rows, roomRow{
				Name:      room.Name,
				Slug:      room.Slug,
				Protected: room.Protected(),
				Pinned:    room.Pinned,
				Messages:  count,
				New:       visits[room.ID],
			})
		}

		if isJSONOutput() {
			outputSuccess(rows, &Meta{Count: len(rows)})
			return nil
		}

		if len(rows) == 0 {
			fmt.Println(ui.Hint("No rooms yet. Seed some with 'phorum seed'."))
			return nil
		}

		display := ui.NewDisplayContext()
		tbl := ui.NewResultsTable(display, ui.RoomsLayout())
		for _, row := range rows {
			name := row.Name
			if row.Protected {
				name += " " + ui.SymbolLock
			}
			newCell := ""
			if user != nil {
				newCell = fmt.Sprintf("%d new", row.New)
			}
			tbl.AddRow(ui.ResultRow{
				Cells: []string{name, fmt.Sprintf("%d msg", row.Messages), newCell},
			})
		}
		fmt.Println(tbl.Render())
		return nil
	},
}

func init() {
	roomsCmd.Flags().StringVar(&roomsAsUser, "as", "", "Show new-message counts for this user")
	rootCmd.AddCommand(roomsCmd)
}
