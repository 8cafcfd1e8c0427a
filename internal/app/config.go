package app

import "flag"

// Config represents the command-line parameters for the application.
type Config struct {
	Size  int
	Scale int
	TPS   int
	Seed  int64
	Map   string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Size: 512, Scale: 1, TPS: 60, Seed: 42, Map: "map"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Size, "size", c.Size, "chunk and canvas edge length in cells")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "reaction sampling seed")
	fs.StringVar(&c.Map, "map", c.Map, "map directory for save/load")
}
