package domain

import "github.com/google/uuid"

// Goal is a named savings target with an accumulated amount.
// Current may exceed Target; no cap is enforced.
type Goal struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Icon    string  `json:"icon"`
	Color   string  `json:"color"`
}

// GoalTemplate carries the default presentation for a goal type.
type GoalTemplate struct {
	Type  string
	Icon  string
	Color string
}

// GoalTemplates is the fixed set of goal types a user can pick from.
var GoalTemplates = []GoalTemplate{
	{Type: "Viagem", Icon: "✈️", Color: "bg-blue-500"},
	{Type: "Férias", Icon: "🏖️", Color: "bg-amber-500"},
	{Type: "Casamento", Icon: "💍", Color: "bg-pink-500"},
	{Type: "Educação", Icon: "🎓", Color: "bg-emerald-500"},
	{Type: "Reserva", Icon: "🛡️", Color: "bg-brand-500"},
	{Type: "Carro", Icon: "🚗", Color: "bg-red-500"},
	{Type: "Casa", Icon: "🏠", Color: "bg-orange-500"},
	{Type: "Outro", Icon: "⭐", Color: "bg-gray-500"},
}

// NewGoal builds a goal of the given type, filling in the template icon
// and color. Unknown types fall back to the "Outro" template.
func NewGoal(name, goalType string, target float64) Goal {
	tmpl := templateFor(goalType)
	return Goal{
		ID:     uuid.NewString(),
		Name:   name,
		Type:   tmpl.Type,
		Target: target,
		Icon:   tmpl.Icon,
		Color:  tmpl.Color,
	}
}

func templateFor(goalType string) GoalTemplate {
	for _, t := range GoalTemplates {
		if t.Type == goalType {
			return t
		}
	}
	return GoalTemplates[len(GoalTemplates)-1]
}

// DefaultGoals seeds the goal list on first run.
func DefaultGoals() []Goal {
	return []Goal{
		{ID: "1", Name: "Viagem Japão 2026", Type: "Viagem", Target: 25000, Current: 8400, Icon: "✈️", Color: "bg-blue-500"},
		{ID: "2", Name: "Reserva de Emergência", Type: "Reserva", Target: 50000, Current: 15000, Icon: "🛡️", Color: "bg-brand-500"},
	}
}
