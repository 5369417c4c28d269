// Package cli implements the sysdash command-line interface.
//
// Each cobra command is a thin shell over a plain function that takes its
// options and writers explicitly, so the behavior can be tested without
// going through cobra or a real terminal.
//
// # Command Structure
//
//	sysdash [monitor]     - Interactive dashboard (default)
//	sysdash status        - One-shot live fetch, no synthetic fallback
//	sysdash serve         - Run the bundled metrics agent
//	sysdash init          - Create .sysdash.yaml
//	sysdash doctor        - Diagnose config, endpoint, and agent problems
//	sysdash version       - Print build information
//	sysdash completion    - Generate shell completion
//
// # Flag Handling
//
// Global flags (--config, --api, --debug, --no-color) live on the root
// command. --api and --debug override the loaded config after validation of
// the override itself, so a bad --api value fails with a CONFIG error before
// any network traffic.
package cli
