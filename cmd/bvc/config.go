package main

import (
	"github.com/BurntSushi/toml"
	"tlog.app/go/errors"
)

type config struct {
	Codegen struct {
		Checks   bool    `toml:"checks"`
		Driver   bool    `toml:"driver"`
		Makefile bool    `toml:"makefile"`
		Values   []int64 `toml:"values"`
	} `toml:"codegen"`

	Out struct {
		Dir   string `toml:"dir"`
		Force bool   `toml:"force"`
	} `toml:"out"`
}

func defaultConfig() config {
	c := config{}

	c.Codegen.Checks = true
	c.Codegen.Driver = true
	c.Codegen.Makefile = true

	return c
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "%v", path)
	}

	return cfg, nil
}
