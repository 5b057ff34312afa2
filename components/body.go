package components

// Body holds physical properties of a flake.
type Body struct {
	Radius float64
	Mass   float64
}
