// Command espscan runs a compiled policy AST (produced by an external
// compiler collaborator, §6) against a strategy registry and emits a
// result envelope. RegisterDefaults populates the registry with the
// file_object reference CTN type only; a host application adds its own
// (collector, executor) pairs for any other CTN type its policies use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/scanset/ESP-Agent-SDK/internal/batch"
	"github.com/scanset/ESP-Agent-SDK/internal/collect/fs"
	"github.com/scanset/ESP-Agent-SDK/internal/evidence"
	"github.com/scanset/ESP-Agent-SDK/internal/execute"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/registry"
	"github.com/scanset/ESP-Agent-SDK/internal/resolve"
	"github.com/scanset/ESP-Agent-SDK/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("espscan", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		policyPath  string
		outDir      string
		shape       string
		maxWorkers  int
		jsonLogging bool
		logLevel    string
	)
	fs.StringVar(&policyPath, "policy", "", "path to a compiled policy AST (JSON)")
	fs.StringVar(&outDir, "out", "./esp-evidence", "directory to write the result envelope into")
	fs.StringVar(&shape, "shape", "summary", "output shape: summary|full|attestation|assessor")
	fs.IntVar(&maxWorkers, "workers", 4, "max concurrent policy evaluations")
	fs.BoolVar(&jsonLogging, "json-logs", false, "emit structured JSON logs instead of text")
	fs.StringVar(&logLevel, "log-level", "info", "minimum log level: debug|info|warn|error")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if policyPath == "" {
		fmt.Fprintln(stderr, "espscan: -policy is required")
		return 2
	}

	logger := newLogger(jsonLogging, logLevel)

	ast, err := loadAST(policyPath)
	if err != nil {
		logger.Error("failed to load policy AST", "error", err)
		return 2
	}

	provider, err := telemetry.New()
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		return 2
	}
	defer provider.Shutdown(context.Background())

	reg := registry.New()
	RegisterDefaults(reg)
	reg.Seal()

	resolved, err := resolve.Resolve(ast, nil)
	if err != nil {
		logger.Error("policy resolution failed", "policy_id", ast.PolicyID, "error", err)
		return 1
	}

	engine := execute.New(reg).WithTelemetry(provider)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	outcomes := batch.Run(ctx, []batch.PolicyJob{
		{PolicyID: resolved.PolicyID, Run: func(ctx context.Context) model.PolicyOutcome {
			return engine.EvaluatePolicy(ctx, resolved)
		}},
	}, maxWorkers, provider.Tracer())

	identities := map[string]evidence.Identity{
		resolved.PolicyID: {
			ScanID:          resolved.PolicyID,
			PolicyID:        resolved.PolicyID,
			ControlMappings: resolved.Metadata.ControlMappings,
			Criticality:     resolved.Metadata.Criticality,
			Weight:          resolved.Metadata.Weight(),
			Title:           resolved.Metadata.Title,
			Description:     resolved.Metadata.Description,
		},
	}

	envelope := evidence.New(outcomes, identities)
	sink := &evidence.FileSink{BaseDir: outDir}

	if err := writeShape(ctx, sink, shape, envelope); err != nil {
		logger.Error("failed to write result envelope", "error", err)
		return 2
	}

	for _, o := range outcomes {
		if o.Result != model.PolicyPass {
			logger.Warn("policy did not pass", "policy_id", o.PolicyID, "result", o.Result, "error", o.Error)
			return 1
		}
	}
	return 0
}

func writeShape(ctx context.Context, sink evidence.Sink, shape string, env *evidence.Envelope) error {
	switch shape {
	case "summary":
		return evidence.WriteJSON(ctx, sink, "summary.json", env.Summary())
	case "full":
		return evidence.WriteJSON(ctx, sink, "full.json", env.Full())
	case "attestation":
		att, err := env.Attestation()
		if err != nil {
			return err
		}
		return evidence.WriteJSON(ctx, sink, "attestation.json", att)
	case "assessor":
		return evidence.WriteJSON(ctx, sink, "assessor.json", env.Assessor())
	default:
		return fmt.Errorf("unknown output shape %q", shape)
	}
}

func loadAST(path string) (*resolve.AST, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	var ast resolve.AST
	if err := json.Unmarshal(data, &ast); err != nil {
		return nil, fmt.Errorf("parse policy AST: %w", err)
	}
	return &ast, nil
}

func newLogger(jsonLogging bool, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if jsonLogging {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// RegisterDefaults is the extension point a deployment overrides (by
// building its own main that calls registry.Register directly) to bind
// its CTN types' (collector, executor) pairs before a scan runs. It
// wires the file_object reference CTN type — filesystem metadata
// (mode/owner/group) via internal/collect/fs, validated by the generic
// Executor of §4.1 — so this binary can evaluate at least one real
// CTN type out of the box; a deployment adds its own pairs the same
// way for any CTN type its policies reference.
func RegisterDefaults(reg *registry.Registry) {
	fileObjectContract := &model.Contract{
		CTNType: "file_object",
		ObjectFields: map[string]model.ObjectFieldSpec{
			"path": {Required: true, Type: model.KindString, Example: "/etc/passwd"},
		},
		StateFields: map[string]model.StateFieldSpec{
			"permissions": {AllowedOps: []string{"="}},
			"owner":       {AllowedOps: []string{"="}},
			"group":       {AllowedOps: []string{"="}},
			"size":        {AllowedOps: []string{"=", ">", "<", ">=", "<="}},
			"readable":    {AllowedOps: []string{"="}},
		},
		Mappings: model.FieldMappings{
			RequiredDataFields: []string{"mode", "owner", "group"},
			StateToData:        map[string]string{"permissions": "mode"},
		},
		Strategy: model.CollectionStrategy{
			CollectorType: "fs",
			Mode:          string(fs.ModeMetadata),
		},
	}

	collector := fs.NewObjectCollector("file_object", fs.ModeMetadata)
	executor := execute.NewGenericExecutor(fileObjectContract)
	if err := reg.Register(collector, executor); err != nil {
		panic(fmt.Sprintf("espscan: failed to register default file_object strategy: %v", err))
	}
}
