package models

import "testing"

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{StatusPending, false},
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusRefunded, true},
	}
	for _, c := range cases {
		tx := Transaction{Status: c.status}
		if got := tx.IsTerminal(); got != c.want {
			t.Errorf("IsTerminal() with status %q = %v, want %v", c.status, got, c.want)
		}
	}
}
