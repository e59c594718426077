package app

import (
	"flag"
	"fmt"
)

type Config struct {
	InputFile  string
	OutputFile string
	Name       string
	Pretty     bool
}

func NewConfig() *Config {
	return &Config{}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.InputFile, "i", "", "Input XML file (default: stdin)")
	flag.StringVar(&c.OutputFile, "o", "", "Output JSON file (default: stdout)")
	flag.StringVar(&c.Name, "n", "", "Colormap name (default: derived from color names)")
	flag.BoolVar(&c.Pretty, "pretty", false, "Pretty-print JSON output")
	flag.Parse()

	if flag.NArg() > 0 {
		flag.Usage()
		return nil, fmt.Errorf("unexpected arguments: %v", flag.Args())
	}
	return c, nil
}
