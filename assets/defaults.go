package assets

import (
	_ "embed"
)

// ExampleConfigYAML is an annotated config file carrying the built-in
// defaults. `monitor config example` prints it.
//
//go:embed defaults/monitor.yaml
var ExampleConfigYAML []byte
