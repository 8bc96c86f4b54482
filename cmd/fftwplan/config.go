package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional fftwplan.yaml config: defaults for flags that
// would otherwise have to be repeated on every invocation.
type fileConfig struct {
	DefaultImpatience uint32 `yaml:"defaultImpatience"`
	DefaultThreads    int    `yaml:"defaultThreads"`
	WisdomPath        string `yaml:"wisdomPath"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{DefaultImpatience: 0, DefaultThreads: 1, WisdomPath: "fftw.wisdom"}
}

// loadFileConfig reads path if it exists, overlaying onto the defaults. A
// missing file is not an error, fftwplan runs fine with pure-default
// configuration.
func loadFileConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
