// Command sandwich is the CLI front end for the Bread-Cheese-Ham
// complexity analyzer. Its subcommands cover the MCP server's analyze,
// gate, refactor, budget and degradation tools (the cheese-only and
// label-only tools have no subcommand) so a developer can run the same
// checks locally or wire them into a pre-commit hook or CI job.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandwich-gate/complexity/internal/mcpserver"
	"github.com/sandwich-gate/complexity/internal/obslog"
	"github.com/sandwich-gate/complexity/internal/sandwichconfig"
	"github.com/sandwich-gate/complexity/pkg/analyzer/cheese"
	"github.com/sandwich-gate/complexity/pkg/gate"
	"github.com/sandwich-gate/complexity/pkg/sandwich"
	"github.com/sandwich-gate/complexity/pkg/types"
)

var (
	verbose     bool
	filePath    string
	projectRoot string
	testPath    string
	moduleType  string
	framework   string
	gateStage   string
	budgetType  string

	logger     *zap.Logger
	waiverStore = gate.NewStore()
)

var rootCmd = &cobra.Command{
	Use:   "sandwich",
	Short: "Bread-Cheese-Ham complexity analyzer",
	Long: `sandwich scores a source file along three axes:

  🍞 Bread  — structural security (trust boundaries, auth, secrets)
  🧀 Cheese — cognitive accessibility (nesting, concepts, SAR)
  🥓 Ham    — behavioral preservation (critical-path test coverage)

and reports a simplex coordinate, archetype label, and gate verdict.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := obslog.Init(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		obslog.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "file path (used for archetype classification and waiver matching)")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "project-root", "", "project root (used for waiver and config discovery)")
	rootCmd.PersistentFlags().StringVar(&testPath, "test-file", "", "path to an associated test file, loaded for the ham axis")
	rootCmd.PersistentFlags().StringVar(&moduleType, "archetype", "", "override archetype classification (deploy, api-external, api-internal, app, lib-domain, lib-infra)")
	rootCmd.PersistentFlags().StringVar(&framework, "framework", "", "UI framework hint for nesting weight (react, vue, angular, svelte, none)")

	analyzeCmd.Flags().StringVar(&gateStage, "gate", "", "also run the named gate stage (poc, mvp, production)")

	gateCmd.Flags().StringVar(&gateStage, "stage", "mvp", "gate stage: poc, mvp, production")

	budgetCmd.Flags().StringVar(&budgetType, "archetype", "app", "archetype for budget limits")

	rootCmd.AddCommand(analyzeCmd, gateCmd, refactorCmd, budgetCmd, degradationCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func loadOptionalSource(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func resolveOptions(path string) sandwich.Options {
	opts := sandwich.Options{
		FilePath:          path,
		ArchetypeOverride: types.Archetype(moduleType),
		Framework:         types.Framework(framework),
		TestSource:        loadOptionalSource(testPath),
	}

	root := projectRoot
	if root == "" {
		root = "."
	}
	cfg, err := sandwichconfig.LoadNearest(root)
	if err == nil && cfg != nil {
		cheeseCfg := cheese.DefaultConfig()
		if cfg.NestingThreshold != nil {
			cheeseCfg.NestingThreshold = *cfg.NestingThreshold
		}
		if cfg.ConceptsPerFn != nil {
			cheeseCfg.ConceptsPerFn = *cfg.ConceptsPerFn
		}
		if cfg.HiddenDepThreshold != nil {
			cheeseCfg.HiddenDepThreshold = *cfg.HiddenDepThreshold
		}
		if opts.Framework == "" && cfg.Framework != "" {
			opts.Framework = cfg.Framework
		}
		if opts.ArchetypeOverride == "" && cfg.ArchetypeOverride != "" {
			opts.ArchetypeOverride = cfg.ArchetypeOverride
		}
		opts.CheeseConfig = &cheeseCfg
	}
	return opts
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <source-file>",
	Short: "run the full sandwich analysis on a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		path := filePath
		if path == "" {
			path = args[0]
		}
		logger.Debug("analyzing", zap.String("path", path))

		result := sandwich.Analyze(source, resolveOptions(path))
		if gateStage != "" {
			verdict := waiverStore.CheckGate(types.GateStage(gateStage), result.Cheese, result.Bread, result.Ham, result.Archetype, source, path, projectRoot)
			return printJSON(map[string]interface{}{"result": result, "gate": verdict})
		}
		return printJSON(result)
	},
}

var gateCmd = &cobra.Command{
	Use:   "gate <source-file>",
	Short: "check a file against a release gate stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		path := filePath
		if path == "" {
			path = args[0]
		}
		result := sandwich.Analyze(source, resolveOptions(path))
		verdict := waiverStore.CheckGate(types.GateStage(gateStage), result.Cheese, result.Bread, result.Ham, result.Archetype, source, path, projectRoot)
		if err := printJSON(verdict); err != nil {
			return err
		}
		if !verdict.Passed {
			os.Exit(1)
		}
		return nil
	},
}

var refactorCmd = &cobra.Command{
	Use:   "refactor <source-file>",
	Short: "suggest refactoring actions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		path := filePath
		if path == "" {
			path = args[0]
		}
		result := sandwich.Analyze(source, resolveOptions(path))
		return printJSON(result.Recommendations)
	},
}

var budgetCmd = &cobra.Command{
	Use:   "budget <before-file> <after-file>",
	Short: "check a change against the per-archetype complexity budget",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := readSource(args[0])
		if err != nil {
			return err
		}
		after, err := readSource(args[1])
		if err != nil {
			return err
		}
		beforeResult := sandwich.Analyze(before, resolveOptions(args[0]))
		afterResult := sandwich.Analyze(after, resolveOptions(args[1]))
		verdict := gate.CheckBudget(beforeResult.Cheese, afterResult.Cheese, types.Archetype(budgetType))
		if err := printJSON(verdict); err != nil {
			return err
		}
		if !verdict.Passed {
			os.Exit(1)
		}
		return nil
	},
}

var degradationCmd = &cobra.Command{
	Use:   "degradation <before-file> <after-file>",
	Short: "compare two versions of a file for cognitive degradation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := readSource(args[0])
		if err != nil {
			return err
		}
		after, err := readSource(args[1])
		if err != nil {
			return err
		}
		beforeResult := sandwich.Analyze(before, resolveOptions(args[0]))
		afterResult := sandwich.Analyze(after, resolveOptions(args[1]))
		report := gate.CheckDegradation(beforeResult.Cheese, afterResult.Cheese)
		return printJSON(report)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "launch the MCP stdio server (equivalent to running sandwich-mcp)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.Serve(waiverStore)
	},
}
