// Package configs provides the embedded configuration template for
// searchkit. Embedding at build time keeps the template available in every
// distribution; `searchkit init` writes it into the working directory.
package configs

import _ "embed"

// ConfigTemplate is the annotated starter searchkit.yaml written by
// `searchkit init`.
//
//go:embed config.example.yaml
var ConfigTemplate string
