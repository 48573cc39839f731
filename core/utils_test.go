package core

import "testing"

func TestCleanString(t *testing.T) {
	if got := CleanString("  Awe Lol "); got != "Awe Lol" {
		t.Errorf("CleanString() = %q", got)
	}
	if got := CleanString(" AWE@Test.CD ", true); got != "awe@test.cd" {
		t.Errorf("CleanString(lower) = %q", got)
	}
}

func TestSyntheticEmail(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"John Doe", "john.doe@student.clinigoal.com"},
		{"  Jane   Roe  ", "jane.roe@student.clinigoal.com"},
		{"Prince", "prince@student.clinigoal.com"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := SyntheticEmail(tt.name); got != tt.want {
			t.Errorf("SyntheticEmail(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
