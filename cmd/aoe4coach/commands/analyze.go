package commands

import (
	"fmt"

	"aoe4coach/internal/aoe4world"
	"aoe4coach/internal/report"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	analyzeRefs    []string
	analyzeOpen    bool
	analyzeProfile int
	analyzeGame    int
	analyzeSig     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [game-url]",
	Short: "Analyzes one game and writes a markdown coaching report",
	Long: `Analyzes the player's build order in the given game and compares it against
the opponents' builds from the reference games passed via --reference. The
game is named either by a full AoE4 World URL (preferred, it carries the sig
query parameter) or by --profile and --game.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		playerRef, err := resolveGameRef(args)
		if err != nil {
			return err
		}

		var refs []aoe4world.GameRef
		for _, raw := range analyzeRefs {
			ref, err := aoe4world.ParseGameURL(raw)
			if err != nil {
				return fmt.Errorf("reference %q: %w", raw, err)
			}
			refs = append(refs, ref)
		}

		cmp, err := analyzer.CompareWithReferences(playerRef, refs)
		if err != nil {
			return err
		}

		renderer := report.NewRenderer(loadNames())
		path, err := renderer.Write(cfg.ReportsDir, cmp)
		if err != nil {
			return err
		}
		fmt.Println(path)

		if analyzeOpen {
			if err := browser.OpenFile(path); err != nil {
				log.Warn().Err(err).Msg("Failed to open report in browser")
			}
		}
		return nil
	},
}

func resolveGameRef(args []string) (aoe4world.GameRef, error) {
	if len(args) == 1 {
		return aoe4world.ParseGameURL(args[0])
	}
	if analyzeProfile == 0 || analyzeGame == 0 {
		return aoe4world.GameRef{}, fmt.Errorf("either a game URL or both --profile and --game are required")
	}
	return aoe4world.GameRef{ProfileID: analyzeProfile, GameID: analyzeGame, Sig: analyzeSig}, nil
}

func init() {
	analyzeCmd.Flags().StringArrayVarP(&analyzeRefs, "reference", "r", nil, "reference game URL (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeOpen, "open", false, "open the report after writing it")
	analyzeCmd.Flags().IntVar(&analyzeProfile, "profile", 0, "profile id, used when no URL is given")
	analyzeCmd.Flags().IntVar(&analyzeGame, "game", 0, "game id, used when no URL is given")
	analyzeCmd.Flags().StringVar(&analyzeSig, "sig", "", "signature token, used when no URL is given")
	rootCmd.AddCommand(analyzeCmd)
}
