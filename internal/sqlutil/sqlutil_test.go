package sqlutil

import "testing"

func TestInClauseArgs(t *testing.T) {
	ph, args := InClauseArgs([]int64{3, 5, 8})
	if ph != "?, ?, ?" {
		t.Errorf("placeholders = %q", ph)
	}
	if len(args) != 3 || args[0] != int64(3) || args[2] != int64(8) {
		t.Errorf("args = %v", args)
	}
}

func TestInClauseArgsEmpty(t *testing.T) {
	ph, args := InClauseArgs([]string(nil))
	if ph != "NULL" {
		t.Errorf("placeholders = %q", ph)
	}
	if args != nil {
		t.Errorf("args = %v", args)
	}
}
