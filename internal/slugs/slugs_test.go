package slugs

import "testing"

func TestRoomSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"General", "general"},
		{"Off Topic", "off-topic"},
		{"UPPER CASE", "upper-case"},
		{"Kočky a psi", "kocky-a-psi"},
		{"Special: Characters!", "special-characters"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := RoomSlug(tt.in); got != tt.want {
				t.Fatalf("RoomSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
