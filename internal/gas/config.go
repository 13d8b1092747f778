package gas

// Config is the pure-numeric parameter set consumed by Setup;
// internal/config wraps this in a YAML-serializable scenario with
// named presets.
type Config struct {
	NumParticles int

	BridgeHeight   float64
	CircleRadius   float64
	CircleDistance float64

	LeftGateCapacity           int
	RightGateCapacity          int
	ExplosionDirectionIsRandom bool
	GateIsFlat                 bool

	DistanceAsChannelLength bool
	ExpectedCollisions      int

	// Reserved for a two-channel variant. Carried so existing config
	// files round-trip; a non-zero value is a configuration error.
	SecondLength float64
	SecondWidth  float64

	Seed int64
}

// DefaultConfig returns the standard constructor defaults.
func DefaultConfig() Config {
	return Config{
		NumParticles:       100,
		BridgeHeight:       0.1,
		CircleRadius:       1.0,
		CircleDistance:     0.5,
		LeftGateCapacity:   3,
		RightGateCapacity:  3,
		GateIsFlat:         false,
		ExpectedCollisions: 0,
	}
}
