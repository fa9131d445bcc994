package cli

import (
	"context"
	"fmt"

	"github.com/scoreforum/phorum/internal/model"
	"github.com/scoreforum/phorum/internal/store"
)

// openStore opens the resolved forum database.
func openStore() (*store.Store, error) {
	s, err := store.Open(getDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", getDatabasePath(), err)
	}
	return s, nil
}

// lookupUser resolves a --as username. An empty name means anonymous (nil).
func lookupUser(ctx context.Context, s *store.Store, name string) (*model.User, error) {
	if name == "" {
		return nil, nil
	}
	u, err := s.UserByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("unknown user %q: %w", name, err)
	}
	return u, nil
}

// paginate slices a result set into pages. Page numbers are 1-based and
// clamped into range; it returns the slice bounds and the page count.
func paginate(total, page, pageSize int) (start, end, pages int) {
	if pageSize < 1 {
		pageSize = 1
	}
	pages = (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start = (page - 1) * pageSize
	end = start + pageSize
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}
	return start, end, pages
}
