package commands

import (
	"aoe4coach/internal/aoe4world"
	"aoe4coach/internal/coach"
	"aoe4coach/internal/config"
	"aoe4coach/internal/logging"
	"aoe4coach/internal/mcp"
	"aoe4coach/internal/report"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	rules   config.Rules

	apiClient aoe4world.Client
	analyzer  *coach.Coach
)

var rootCmd = &cobra.Command{
	Use:   "aoe4coach",
	Short: "aoe4coach is a build-order coaching MCP server for Age of Empires 4",
	Long: `An MCP server that turns AoE4 World post-game data into coaching material:
villager production gaps, age-up and military timings, army composition, and
comparisons against the builds of slightly stronger opponents.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		rules, err = config.LoadRules(cfg.RulesPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load analysis rules")
		}

		apiClient = aoe4world.NewClient(cfg.AoE4World)

		analyzer, err = coach.New(apiClient, rules)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize analyzer")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("aoe4coach starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(analyzer, apiClient, report.NewRenderer(loadNames()))
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("MCP Server stopped")
		}
	},
}

// loadNames fetches the entity name tables from the AoE4 World data
// repository. Reports fall back to raw item ids when the fetch fails.
func loadNames() aoe4world.NameResolver {
	lookup := aoe4world.NewLookup()
	if err := lookup.Load(cfg.AoE4World.DataURL); err != nil {
		log.Warn().Err(err).Msg("Failed to load entity names, using raw ids")
		return nil
	}
	return lookup
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
