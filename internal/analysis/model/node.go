package model

// Position is a 2-D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one laid-out vertex of the execution graph. The metric fields are
// echoed verbatim from the source span's attributes.
type Node struct {
	Id        string   `json:"id"`
	Type      string   `json:"type"`
	Label     string   `json:"label"`
	Layer     int      `json:"layer"`
	Position  Position `json:"position"`
	CallCount int64    `json:"call_count"`
	Duration  float64  `json:"duration_ms"`
	Tokens    int64    `json:"tokens"`
	Cost      float64  `json:"cost_usd"`
}

// Edge is a directed source -> target reference between two node ids.
type Edge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Label    string  `json:"label,omitempty"`
	Weight   float64 `json:"weight,omitempty"`
	Animated bool    `json:"animated,omitempty"`
}
