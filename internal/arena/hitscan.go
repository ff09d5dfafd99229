package arena

import "github.com/rocketscienceinc/arena-backend/internal/entity"

const (
	// shotRange is the maximum distance a shot travels.
	shotRange = 50.0

	// hitRadius is how close the ray must pass to a target's position.
	hitRadius = 0.6

	hitDamage = 25
)

// rayHits reports whether a ray from origin along the unit direction dir
// passes strictly within hitRadius of target before running out of range.
// Targets behind the shooter never hit.
func rayHits(origin, dir, target entity.Vector3) bool {
	relative := target.Sub(origin)

	projection := relative.Dot(dir)
	if projection < 0 || projection > shotRange {
		return false
	}

	closest := origin.Add(dir.Scale(projection))

	return target.Sub(closest).LengthSq() < hitRadius*hitRadius
}
