package entity

import "math/rand"

const (
	MaxHealth = 100

	// Respawn points are picked uniformly in x,z ∈ [-SpawnSpread, SpawnSpread]
	// at standing height.
	SpawnSpread = 10.0
	SpawnHeight = 1.6
)

// PlayerState is the transform and health carried in every state message.
// Position and orientation are client-authoritative; health and the score
// counters are only ever mutated server-side.
type PlayerState struct {
	Position Vector3 `json:"position"`
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
	Health   int     `json:"health"`
}

// Player is the gameplay identity bound to a connection once it has sent
// its init message.
type Player struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	State  PlayerState `json:"state"`
	Kills  int         `json:"kills"`
	Deaths int         `json:"deaths"`
}

// SetState overwrites the stored state wholesale with a client-submitted
// value, clamping health into [0, MaxHealth].
func (that *Player) SetState(state PlayerState) {
	if state.Health < 0 {
		state.Health = 0
	}
	if state.Health > MaxHealth {
		state.Health = MaxHealth
	}
	that.State = state
}

// ApplyDamage subtracts amount from health, flooring at zero.
// It reports whether the player is dead afterwards.
func (that *Player) ApplyDamage(amount int) bool {
	that.State.Health -= amount
	if that.State.Health <= 0 {
		that.State.Health = 0
		return true
	}
	return false
}

// Respawn restores full health and moves the player to a random spawn point.
// Kill and death counters are untouched.
func (that *Player) Respawn() {
	that.State.Health = MaxHealth
	that.State.Position = Vector3{
		X: (rand.Float64()*2 - 1) * SpawnSpread,
		Y: SpawnHeight,
		Z: (rand.Float64()*2 - 1) * SpawnSpread,
	}
}
