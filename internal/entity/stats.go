package entity

// PlayerStats is the lifetime kill/death tally persisted per display name.
// It survives reconnects and is deliberately separate from the per-session
// counters on Player.
type PlayerStats struct {
	Name   string `json:"name"`
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
}
