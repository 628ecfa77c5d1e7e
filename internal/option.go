package internal

// Option adjusts how Run assembles the pressmark server before it
// starts serving.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig supplies a pre-built configuration, bypassing the config
// file lookup. Tests and the mcp subcommand use this.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}
