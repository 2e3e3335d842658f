// Package main hosts the usdabc CLI entrypoint and command graph.
//
// The Cobra command tree converts Hermite curves between scene documents and
// curve archives (write, read), inspects archives, and scaffolds
// configuration. It resolves configuration and logging once per invocation so
// subcommands only translate flags into internal/convert calls and render the
// resulting report.
package main
