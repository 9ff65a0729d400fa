package domain

import "testing"

func TestNewGoal(t *testing.T) {
	g := NewGoal("Japão", "Viagem", 25000)
	if g.ID == "" {
		t.Error("goal must get an ID")
	}
	if g.Icon != "✈️" || g.Color != "bg-blue-500" {
		t.Errorf("template not applied: icon=%q color=%q", g.Icon, g.Color)
	}
	if g.Current != 0 {
		t.Errorf("new goal Current = %v, want 0", g.Current)
	}
}

func TestNewGoalUnknownType(t *testing.T) {
	g := NewGoal("Algo", "Iate", 100000)
	if g.Type != "Outro" {
		t.Errorf("unknown type = %q, want Outro", g.Type)
	}
	if g.Icon != "⭐" {
		t.Errorf("unknown type icon = %q, want ⭐", g.Icon)
	}
}

func TestDefaultGoals(t *testing.T) {
	goals := DefaultGoals()
	if len(goals) != 2 {
		t.Fatalf("DefaultGoals() len = %d, want 2", len(goals))
	}
	if goals[0].Name != "Viagem Japão 2026" || goals[0].Current != 8400 {
		t.Errorf("first seeded goal = %+v", goals[0])
	}
	if goals[1].Name != "Reserva de Emergência" || goals[1].Target != 50000 {
		t.Errorf("second seeded goal = %+v", goals[1])
	}
}
