package config

// Presets holds the built-in scenario descriptions, keyed by family
// and variant.
var Presets = map[string]map[string]*Config{
	"symmetric": {
		"balanced": {
			NumParticles: 1000, LeftRatio: 0.5,
			BridgeHeight: 0.1, CircleRadius: 1.0, CircleDistance: 0.5,
			LeftGateCapacity: 3, RightGateCapacity: 3,
			ExplosionDirectionIsRandom: true,
		},
		"tiny-gate": {
			NumParticles: 1000, LeftRatio: 0.5,
			BridgeHeight: 0.1, CircleRadius: 1.0, CircleDistance: 0.5,
			LeftGateCapacity: 1, RightGateCapacity: 1,
			ExplosionDirectionIsRandom: true,
		},
	},
	"funnel": {
		"mild": {
			NumParticles: 1000, LeftRatio: 0.5,
			BridgeHeight: 0.1, CircleRadius: 1.0, CircleDistance: 0.5,
			LeftGateCapacity: 15, RightGateCapacity: 2,
			ExplosionDirectionIsRandom: true,
		},
		"extreme": {
			NumParticles: 2000, LeftRatio: 0.5,
			BridgeHeight: 0.08, CircleRadius: 1.0, CircleDistance: 0.4,
			LeftGateCapacity: 25, RightGateCapacity: 1,
			ExplosionDirectionIsRandom: true,
		},
	},
	"single-particle": {
		"diagonal-drop": {
			NumParticles: 1, LeftRatio: 1.0,
			BridgeHeight: 0.1, CircleRadius: 1.0, CircleDistance: 0.5,
			LeftGateCapacity: 1, RightGateCapacity: 1,
		},
	},
	"flat-gate": {
		"narrow": {
			NumParticles: 1000, LeftRatio: 1.0,
			BridgeHeight: 0.1, CircleRadius: 1.0, CircleDistance: 0.5,
			LeftGateCapacity: 1, RightGateCapacity: 1,
			GateIsFlat: true,
		},
	},
}

// GetPreset looks up a named variant within a scenario family.
func GetPreset(family, variant string) *Config {
	variants, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := variants[variant]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets lists the variant names within a scenario family.
func ListPresets(family string) []string {
	variants, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	return names
}
