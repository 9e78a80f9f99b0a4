package swagger

import _ "embed"

// openAPIYAML is the API description served at /openapi.yaml.
//
//go:embed openapi.yaml
var openAPIYAML []byte
