package entity

// Vector3 is a point or direction in world space.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (that Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: that.X + other.X, Y: that.Y + other.Y, Z: that.Z + other.Z}
}

func (that Vector3) Sub(other Vector3) Vector3 {
	return Vector3{X: that.X - other.X, Y: that.Y - other.Y, Z: that.Z - other.Z}
}

func (that Vector3) Scale(factor float64) Vector3 {
	return Vector3{X: that.X * factor, Y: that.Y * factor, Z: that.Z * factor}
}

func (that Vector3) Dot(other Vector3) float64 {
	return that.X*other.X + that.Y*other.Y + that.Z*other.Z
}

// LengthSq returns the squared length, avoiding the square root where only
// comparisons are needed.
func (that Vector3) LengthSq() float64 {
	return that.Dot(that)
}
