// main is the entry point for the remap binary. It loads the mapping config,
// optionally initializes a metrics backend, and executes the run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"remap/internal/config"
	"remap/internal/metrics"
	"remap/internal/metrics/prompush"
	"remap/internal/pipeline"
)

func main() {
	var (
		cfgPath           string
		templatePath      string
		inputPath         string
		outputPath        string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validateOnly      bool
	)

	flag.StringVar(&cfgPath, "config", "mapping.json", "mapping config JSON path")
	flag.StringVar(&templatePath, "template", "template.csv", "template CSV path (first row defines output columns)")
	flag.StringVar(&inputPath, "input", "", "input CSV path")
	flag.StringVar(&outputPath, "output", "", "output path for file sinks (csv, xlsx)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validateOnly, "validate", false, "validate the mapping config and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if validateOnly {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
		issues := config.Validate(cfg)
		hasError := false
		for _, iss := range issues {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			if iss.Severity == config.SeverityError {
				hasError = true
			}
		}
		if hasError {
			log.Printf("Configuration is invalid: %v", cfgPath)
			os.Exit(1)
		}
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	if inputPath == "" {
		fatalf("-input is required")
	}

	// Decide metrics backend: flag -> env -> default.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("remap", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	res, err := pipeline.Run(context.Background(), pipeline.Options{
		ConfigPath:   cfgPath,
		TemplatePath: templatePath,
		InputPath:    inputPath,
		OutputPath:   outputPath,
	})
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Print(res.Summary())
}

// fatalf logs the message and exits non-zero. Fatal errors happen only during
// the load/parse stages; once remapping begins the run always completes.
func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	os.Exit(1)
}
