package config

// MangleConfig configures the Mangle holders query.
type MangleConfig struct {
	// FactLimit caps derived facts during evaluation.
	FactLimit int `yaml:"fact_limit"`
}
