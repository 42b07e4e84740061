package config

// Presets are named scenarios. The classic geometry stays fixed; the mass
// ratio and precision vary.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"equal": {
		Mass1: 1, Mass2: 1,
		Pos1: DefaultPos1, Pos2: DefaultPos2, Vel2: DefaultVel2,
		MaxDenominator: 0, SimplifyEvery: DefaultSimplifyEvery,
		MaxSteps: DefaultMaxSteps,
	},
	"hundred": {
		Mass1: 1, Mass2: 100,
		Pos1: DefaultPos1, Pos2: DefaultPos2, Vel2: DefaultVel2,
		MaxDenominator: 0, SimplifyEvery: DefaultSimplifyEvery,
		MaxSteps: DefaultMaxSteps,
	},
	"exact": {
		// The classic ratio without denominator limiting: every quantity
		// stays a fully exact rational for the whole run.
		Mass1: 1, Mass2: 10000,
		Pos1: DefaultPos1, Pos2: DefaultPos2, Vel2: DefaultVel2,
		MaxDenominator: 0, SimplifyEvery: DefaultSimplifyEvery,
		MaxSteps: DefaultMaxSteps,
	},
	"million": {
		Mass1: 1, Mass2: 1_000_000,
		Pos1: DefaultPos1, Pos2: DefaultPos2, Vel2: DefaultVel2,
		MaxDenominator: DefaultMaxDenominator, SimplifyEvery: DefaultSimplifyEvery,
		MaxSteps: DefaultMaxSteps,
	},
	"hundred-million": {
		Mass1: 1, Mass2: 100_000_000,
		Pos1: DefaultPos1, Pos2: DefaultPos2, Vel2: DefaultVel2,
		MaxDenominator: DefaultMaxDenominator, SimplifyEvery: DefaultSimplifyEvery,
		MaxSteps: DefaultMaxSteps,
	},
}

// GetPreset returns the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
