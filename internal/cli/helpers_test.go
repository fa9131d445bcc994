package cli

import "testing"

func TestPaginate(t *testing.T) {
	tests := []struct {
		name               string
		total, page, size  int
		start, end, pages  int
	}{
		{"first page", 45, 1, 20, 0, 20, 3},
		{"middle page", 45, 2, 20, 20, 40, 3},
		{"last short page", 45, 3, 20, 40, 45, 3},
		{"page past end clamps", 45, 9, 20, 40, 45, 3},
		{"page below one clamps", 45, 0, 20, 0, 20, 3},
		{"empty set", 0, 1, 20, 0, 0, 1},
		{"zero page size", 5, 1, 0, 0, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, pages := paginate(tt.total, tt.page, tt.size)
			if start != tt.start || end != tt.end || pages != tt.pages {
				t.Fatalf("paginate(%d, %d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.total, tt.page, tt.size, start, end, pages, tt.start, tt.end, tt.pages)
			}
		})
	}
}
