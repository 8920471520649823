package engine

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates/overlays.yaml
var overlaysYAML []byte

type overlaySection struct {
	Header string `yaml:"header"`
	Body   string `yaml:"body"`
}

type psychologyProfile struct {
	RankOrder []string         `yaml:"rank_order"`
	Sections  []overlaySection `yaml:"sections"`
}

type overlayConfig struct {
	Persona    map[string]string            `yaml:"persona"`
	Psychology map[string]psychologyProfile `yaml:"psychology"`
}

var overlays = mustLoadOverlays()

func mustLoadOverlays() overlayConfig {
	var cfg overlayConfig
	if err := yaml.Unmarshal(overlaysYAML, &cfg); err != nil {
		panic(fmt.Sprintf("engine: parse overlays.yaml: %v", err))
	}
	for _, name := range []string{"hr", "technical", "manager", "founder", "default"} {
		if _, ok := cfg.Persona[name]; !ok {
			panic(fmt.Sprintf("engine: overlays.yaml missing persona %q", name))
		}
		if _, ok := cfg.Psychology[name]; !ok {
			panic(fmt.Sprintf("engine: overlays.yaml missing psychology profile %q", name))
		}
	}
	return cfg
}
