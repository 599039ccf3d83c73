package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/tilesim/capi"
	"github.com/sarchlab/tilesim/cluster"
	"github.com/sarchlab/tilesim/config"
	"github.com/sarchlab/tilesim/transport"
)

var (
	configPath   string
	scenarioName string
	logLevel     string
)

// defaultClusterYAML is the built-in topology used when --config is not
// given: two processes of two cores each, plus a dedicated MCP core.
const defaultClusterYAML = `
total_cores: 5
process_count: 2
mcp_core_num: 4
current_process_num: 0
application_cores: 4
enable_performance_modeling: true
default_core_frequency: 1.0
default_core_model: simple
processes:
  "0":
    cores: [0, 1]
  "1":
    cores: [2, 3]
`

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Assemble a tile cluster and drive a scenario through it",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		store := loadConfig()

		ctx := cluster.NewBuilder().WithConfig(store).Build()
		capi.Bind(ctx)
		ctx.Run()

		registerSummaryDump(ctx)

		driverCore := transport.CoreID(0)
		tile := ctx.Tiles[driverCore]
		if tile == nil || tile.Model == nil {
			logrus.Fatalf("core %d has no performance model to drive", driverCore)
		}

		color.Cyan("running scenario %q on core %d", scenarioName, driverCore)
		selectScenario(scenarioName)(tile.Model)

		time.Sleep(10 * time.Millisecond)
		ctx.Finish()

		atexit.Exit(0)
	},
}

func loadConfig() *config.Store {
	if configPath == "" {
		store, err := config.Parse([]byte(defaultClusterYAML))
		if err != nil {
			logrus.Fatalf("failed to parse built-in default config: %v", err)
		}
		return store
	}

	store, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("failed to load config %q: %v", configPath, err)
	}
	return store
}

// registerSummaryDump prints every tile's perfmodel summary on exit,
// colorized green for an active model and gray for a disabled one.
// Adapted from model8/runner/timingplatform.go's atexit-registered
// bottleneck-analyzer report.
func registerSummaryDump(ctx *cluster.Context) {
	atexit.Register(func() {
		for core, tile := range ctx.Tiles {
			if tile.Model == nil {
				continue
			}
			label := color.New(color.FgGreen).Sprintf("tile %d", core)
			if !tile.Model.Enabled() {
				label = color.New(color.FgHiBlack).Sprintf("tile %d (disabled)", core)
			}
			w := color.Output
			color.New(color.FgWhite).Fprintf(w, "%s: %d instructions, %.0f cycles\n",
				label, tile.Model.InstructionCount(), tile.Model.CompletionTimeCycles())
		}
	})
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML cluster topology config (defaults to a built-in small cluster)")
	runCmd.Flags().StringVar(&scenarioName, "scenario", "single-block", "scenario to drive through core 0 (single-block, stall-resume, branch)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
}
