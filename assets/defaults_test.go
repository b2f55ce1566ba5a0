package assets_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/ec2-healthwatch/assets"
	"github.com/doeshing/ec2-healthwatch/internal/domain"
	configinfra "github.com/doeshing/ec2-healthwatch/internal/infrastructure/config"
)

func TestExampleConfigMatchesDefaults(t *testing.T) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.ExampleConfigYAML, &cfg); err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if diff := cmp.Diff(configinfra.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("example config drifted from defaults (-want +got):\n%s", diff)
	}
}
