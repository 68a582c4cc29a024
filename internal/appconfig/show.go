// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	active := cfg
	if active == nil {
		active = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Provider URL:    %s\n", active.ProviderURL)
	fmt.Fprintf(out, "  Model:           %s\n", active.Model)
	fmt.Fprintf(out, "  Grader Model:    %s\n", active.GraderModelName())
	fmt.Fprintf(out, "  Temperature:     %v\n", active.Temperature)
	fmt.Fprintf(out, "  Max Tokens:      %d\n", active.ResponseMaxTokens())
	fmt.Fprintf(out, "  Request Timeout: %s\n", active.RequestTimeout())
	fmt.Fprintf(out, "  Retry Attempts:  %d\n", active.RetryAttempts())
	fmt.Fprintf(out, "  Retry Backoff:   %s\n", active.RetryBackoff())
	fmt.Fprintf(out, "  Workers:         %d\n", active.WorkerCount())
	fmt.Fprintf(out, "  Debug:           %v\n", active.Debug)
	fmt.Fprintf(out, "  Log File:        %s\n", active.LogFilePath())
	if len(active.ModelTypes) > 0 {
		fmt.Fprintf(out, "  Model Types:     %d mapped\n", len(active.ModelTypes))
	}
}
