// Package pipeline executes one remapping run as a single linear sequence:
// load config -> parse template -> parse input -> validate uniqueness ->
// remap -> aggregate -> write output.
//
// Error policy follows the run taxonomy: everything up to and including the
// parse stages is fatal and aborts before any row is transformed; once
// remapping begins, no row or cell failure aborts the run. There is no retry
// state.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"remap/internal/config"
	"remap/internal/metrics"
	"remap/internal/output"
	parsecsv "remap/internal/parser/csv"
	"remap/internal/remap"
	"remap/internal/report"
	"remap/internal/rules"
	"remap/internal/validate"
)

// Options are the file locations for one run. OutputPath may be empty when
// the configured sink is a database, or to skip writing entirely.
type Options struct {
	ConfigPath   string
	TemplatePath string
	InputPath    string
	OutputPath   string
}

// Run executes the pipeline and returns the aggregated result. A non-nil
// error is always fatal (load or parse stage); warnings never surface here.
func Run(ctx context.Context, opts Options) (report.Result, error) {
	start := time.Now()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return report.Result{}, err
	}
	for _, iss := range config.Validate(cfg) {
		if iss.Severity == config.SeverityError {
			return report.Result{}, fmt.Errorf("pipeline: invalid config: %w", iss)
		}
		log.Printf("config: %s", iss)
	}

	csvOpt := parsecsv.FromConfig(cfg.CSVOptions)

	headers, err := parsecsv.ReadTemplate(opts.TemplatePath, csvOpt)
	if err != nil {
		return report.Result{}, err
	}
	_, rows, warns, err := parsecsv.ReadRows(opts.InputPath, csvOpt)
	if err != nil {
		return report.Result{}, err
	}
	log.Printf("reader: rows=%d warnings=%d", len(rows), len(warns))

	// Uniqueness validation is advisory: duplicates become warnings, never a
	// failed run.
	val := validate.Result{IsValid: true}
	if len(cfg.IDColumns) > 0 {
		val = validate.Unique(rows, cfg.IDColumns)
	}

	grid, stats, unmapped, err := remap.Parallel(
		ctx, headers, rows,
		compilerFor(cfg), ruleSet(cfg),
		cfg.Runtime.Workers,
		func(rowIdx int, column string, err error) {
			log.Printf("remap: row %d column %q: %v", rowIdx+1, column, err)
		},
	)
	if err != nil {
		return report.Result{}, err
	}

	res := report.Aggregate(headers, grid, stats, unmapped, val, warns)

	if sinkConfigured(cfg.Output, opts.OutputPath) {
		sink, err := output.New(cfg.Output, opts.OutputPath)
		if err != nil {
			return res, err
		}
		if err := sink.Write(ctx, res.Headers, res.Data); err != nil {
			return res, err
		}
		log.Printf("writer: kind=%s rows=%d", sinkKind(cfg.Output), len(res.Data))
	}

	metrics.RecordRun(res.Stats.TotalRows, res.Stats.ErrorRows, res.Stats.Warnings,
		time.Since(start), "success")
	return res, nil
}

// compilerFor selects the rule compiler: the script engine by default, the
// data-only compiler when scripts are disabled.
func compilerFor(cfg config.Config) rules.Compiler {
	if cfg.Runtime.DisableScripts {
		return rules.NewStaticCompiler()
	}
	return rules.NewScriptCompiler()
}

// ruleSet converts the decoded mapping config into the compiler input.
func ruleSet(cfg config.Config) rules.Set {
	cols := make(map[string]rules.Spec, len(cfg.Mappings))
	for column, m := range cfg.Mappings {
		cols[column] = rules.Spec{Source: m.Source, Column: m.Column}
	}
	return rules.Set{Helpers: cfg.Helpers, Columns: cols}
}

// sinkConfigured reports whether a write should happen: database sinks are
// driven purely by config, file sinks additionally need an output path.
func sinkConfigured(o config.Output, path string) bool {
	switch o.Kind {
	case "", "csv", "xlsx":
		return path != ""
	default:
		return true
	}
}

func sinkKind(o config.Output) string {
	if o.Kind == "" {
		return "csv"
	}
	return o.Kind
}
