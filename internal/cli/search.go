package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoreforum/phorum/internal/model"
	"github.com/scoreforum/phorum/internal/render"
	"github.com/scoreforum/phorum/internal/search"
	"github.com/scoreforum/phorum/internal/ui"
)

var (
	searchAsUser string
	searchPage   int
	searchLimit  int
	searchFull   bool
)

// displayTime is the timestamp format used in terminal output.
const displayTime = "2006-01-02 15:04"

type searchReplyJSON struct {
	ID      int64  `json:"id"`
	Author  string `json:"author"`
	Created string `json:"created"`
	HTML    string `json:"html"`
}

type searchThreadJSON struct {
	ID          int64             `json:"id"`
	Room        string            `json:"room"`
	RoomSlug    string            `json:"room_slug"`
	Author      string            `json:"author"`
	Created     string            `json:"created"`
	NewestMatch string            `json:"newest_match"`
	HTML        string            `json:"html"`
	Replies     []searchReplyJSON `json:"replies,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search messages across all visible rooms",
	Long: `Searches message bodies for the given words. Quoted phrases match
literally, a trailing or leading * acts as a wildcard, and matching is
case- and diacritics-insensitive. Results are grouped by thread, newest
match first. An empty query lists all visible threads.

Protected rooms are only searched for users who have entered them with
the current password (--as <user>).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		s, err := openStore()
		if err != nil {
			return handleError("open_failed", err, "")
		}
		defer s.Close()

		user, err := lookupUser(ctx, s, searchAsUser)
		if err != nil {
			return handleError("unknown_user", err, "")
		}

		svc := search.NewService(s, s)

		var spinner *ui.Spinner
		if !isJSONOutput() {
			spinner = ui.NewSpinner("searching")
			spinner.Start()
		}
		started := time.Now()
		matches, err := svc.Search(ctx, query, user)
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			return handleError("search_failed", err, "")
		}

		total := len(matches)
		pageSize := searchLimit
		if pageSize <= 0 {
			pageSize = getConfig().EffectivePageSize()
		}
		start, end, pages := paginate(total, searchPage, pageSize)
		pageMatches := matches[start:end]

		pageIDs := make([]int64, len(pageMatches))
		for i, m := range pageMatches {
			pageIDs[i] = m.ThreadID
		}

		replyIDs, err := svc.MatchingReplyIDs(ctx, query, pageIDs, user)
		if err != nil {
			return handleError("search_failed", err, "")
		}
		repliesByThread, err := svc.FetchMatchingReplies(ctx, pageIDs, replyIDs)
		if err != nil {
			return handleError("search_failed", err, "")
		}

		roots, err := s.MessagesByID(ctx, pageIDs)
		if err != nil {
			return handleError("search_failed", err, "")
		}
		rootByID := make(map[int64]*model.Message, len(roots))
		for _, m := range roots {
			rootByID[m.ID] = m
		}

		elapsed := time.Since(started).Milliseconds()

		if isJSONOutput() {
			threads := make([]searchThreadJSON, 0, len(pageMatches))
			for _, m := range pageMatches {
				root := rootByID[m.ThreadID]
				if root == nil {
					continue
				}
				threads = append(threads, searchThreadJSON{
					ID:          root.ID,
					Room:        root.Room.Name,
					RoomSlug:    root.Room.Slug,
					Author:      root.Author.Username,
					Created:     root.Created.Format(displayTime),
					NewestMatch: m.NewestMatch.Format(displayTime),
					HTML:        highlightedHTML(root, query),
					Replies:     jsonReplies(repliesByThread[m.ThreadID], query),
				})
			}
			outputSuccess(threads, &Meta{
				Count:       total,
				Page:        clampPage(searchPage, pages),
				Pages:       pages,
				QueryTimeMs: elapsed,
			})
			return nil
		}

		if total == 0 {
			fmt.Println(ui.Hint("No matches."))
			return nil
		}

		display := ui.NewDisplayContext()
		if searchFull {
			printFullResults(display, pageMatches, rootByID, repliesByThread, query, start)
		} else {
			printResultsTable(display, pageMatches, rootByID, repliesByThread, query, start, total)
		}

		fmt.Println(ui.Hint(fmt.Sprintf("page %d of %d · %d %s",
			clampPage(searchPage, pages), pages, total, plural(total, "thread", "threads"))))
		return nil
	},
}

// printResultsTable renders the compact per-thread table.
func printResultsTable(display *ui.DisplayContext, matches []search.ThreadMatch, rootByID map[int64]*model.Message, repliesByThread map[int64][]*model.Message, query string, offset, total int) {
	tbl := ui.NewResultsTable(display, ui.SearchLayout())
	snippetWidth := tbl.ContentWidth("snippet")

	for i, m := range matches {
		root := rootByID[m.ThreadID]
		if root == nil {
			continue
		}

		snippet := ui.TruncateWithEllipsis(excerpt(root, query), snippetWidth)
		if n := len(repliesByThread[m.ThreadID]); n > 0 {
			snippet += "\n" + ui.Hint(fmt.Sprintf("└ %d matching %s", n, plural(n, "reply", "replies")))
		}

		tbl.AddRow(ui.ResultRow{
			Num: offset + i + 1,
			Cells: []string{
				ui.FormatRowNum(offset+i+1, total),
				snippet,
				root.Room.Name,
				root.Author.Username,
				m.NewestMatch.Format(displayTime),
			},
		})
	}

	fmt.Println(tbl.Render())
}

// printFullResults renders one block per thread with rendered bodies and
// matching replies.
func printFullResults(display *ui.DisplayContext, matches []search.ThreadMatch, rootByID map[int64]*model.Message, repliesByThread map[int64][]*model.Message, query string, offset int) {
	for i, m := range matches {
		root := rootByID[m.ThreadID]
		if root == nil {
			continue
		}

		fmt.Printf("%s %s · %s · %s\n",
			ui.Header(fmt.Sprintf("%d.", offset+i+1)),
			ui.RoomName(root.Room.Name, root.Room.Protected()),
			ui.Author(root.Author.Username),
			ui.Timestamp(root.Created.Format(displayTime)))

		body, err := ui.RenderMarkdown(root.Text, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			body = "  " + root.Text + "\n"
		}
		fmt.Print(body)

		for _, reply := range repliesByThread[m.ThreadID] {
			fmt.Printf("  %s %s\n", ui.Author(reply.Author.Username),
				ui.Timestamp(reply.Created.Format(displayTime)))
			fmt.Println(indent(ui.RenderHighlighted(highlightedHTML(reply, query)), "  "))
		}
		fmt.Println()
	}
}

// highlightedHTML renders a message body to HTML and marks search hits.
func highlightedHTML(m *model.Message, query string) string {
	html, err := render.Message(m.Text)
	if err != nil {
		return m.Text
	}
	return string(search.Highlight(string(html), query))
}

// excerpt produces a single-line highlighted excerpt of a message body.
func excerpt(m *model.Message, query string) string {
	text := ui.RenderHighlighted(highlightedHTML(m, query))
	return strings.Join(strings.Fields(text), " ")
}

func jsonReplies(replies []*model.Message, query string) []searchReplyJSON {
	out := make([]searchReplyJSON, 0, len(replies))
	for _, r := range replies {
		out = append(out, searchReplyJSON{
			ID:      r.ID,
			Author:  r.Author.Username,
			Created: r.Created.Format(displayTime),
			HTML:    highlightedHTML(r, query),
		})
	}
	return out
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func clampPage(page, pages int) int {
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func init() {
	searchCmd.Flags().StringVar(&searchAsUser, "as", "", "Search as this user (unlocked rooms included)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Results page to show")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Threads per page (default from config)")
	searchCmd.Flags().BoolVar(&searchFull, "full", false, "Show full rendered message bodies")
	rootCmd.AddCommand(searchCmd)
}
