package models

// Point - planar position
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Z float64 `json:"z" yaml:"z"`
}

// ArenaSize - bounded planar region. Zero means "use the engine default".
type ArenaSize struct {
	Width float64 `json:"width" yaml:"width"`
	Depth float64 `json:"depth" yaml:"depth"`
}

// Obstacle - static axis-aligned rectangle anchored at its minimum corner
type Obstacle struct {
	X     float64 `json:"x" yaml:"x"`
	Z     float64 `json:"z" yaml:"z"`
	Width float64 `json:"width" yaml:"width"`
	Depth float64 `json:"depth" yaml:"depth"`
}

// Collectible - item picked up by driving near it
type Collectible struct {
	ID   string  `json:"id" yaml:"id"`
	X    float64 `json:"x" yaml:"x"`
	Z    float64 `json:"z" yaml:"z"`
	Kind string  `json:"kind" yaml:"kind"` // "coin", "battery", ...
}

// Pushable - movable object displaced by robot contact
type Pushable struct {
	ID     string  `json:"id" yaml:"id"`
	X      float64 `json:"x" yaml:"x"`
	Z      float64 `json:"z" yaml:"z"`
	Kind   string  `json:"kind" yaml:"kind"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// Ring - circular containment zone for push-out challenges
type Ring struct {
	X      float64 `json:"x" yaml:"x"`
	Z      float64 `json:"z" yaml:"z"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// Goal - target region for reach_goal challenges
type Goal struct {
	X      float64 `json:"x" yaml:"x"`
	Z      float64 `json:"z" yaml:"z"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// WinCondition - victory rule tag
type WinCondition string

const (
	WinReachGoal  WinCondition = "reach_goal"
	WinPushAllOut WinCondition = "push_all_out"
)

// Challenge - immutable scenario definition loaded from the catalog
type Challenge struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Category   string `json:"category" yaml:"category"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`

	Arena     ArenaSize  `json:"arena" yaml:"arena,omitempty"`
	Obstacles []Obstacle `json:"obstacles" yaml:"obstacles"`
	Start     Pose       `json:"start" yaml:"start"`
	Goal      Goal       `json:"goal" yaml:"goal"`

	Collectibles           []Collectible `json:"collectibles,omitempty" yaml:"collectibles,omitempty"`
	RequireAllCollectibles bool          `json:"require_all_collectibles,omitempty" yaml:"require_all_collectibles,omitempty"`

	Pushables []Pushable `json:"pushables,omitempty" yaml:"pushables,omitempty"`
	Ring      *Ring      `json:"ring,omitempty" yaml:"ring,omitempty"`

	WinCondition WinCondition `json:"win_condition" yaml:"win_condition"`
}
