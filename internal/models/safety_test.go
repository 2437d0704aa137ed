package models

import "testing"

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  SafetyLevel
	}{
		{100, SafetyGreen},
		{80, SafetyGreen},
		{79, SafetyYellow},
		{60, SafetyYellow},
		{59, SafetyOrange},
		{40, SafetyOrange},
		{39, SafetyRed},
		{0, SafetyRed},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestSafeRoute_Level(t *testing.T) {
	route := SafeRoute{SafetyScore: 85}
	if route.Level() != SafetyGreen {
		t.Errorf("Level() = %s, want green", route.Level())
	}
}
