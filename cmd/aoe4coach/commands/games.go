package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	gamesProfile int
	gamesCiv     string
	gamesLimit   int
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Lists a player's recent games and reference candidates",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists recent ranked games, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		games, total, err := apiClient.ListGames(gamesProfile, gamesCiv, gamesLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "GAME\tMAP\tRESULT\tCIV\tOPPONENT\tOPP RATING")
		for _, g := range games {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
				g.GameID, g.Map, g.PlayerResult, g.PlayerCiv, g.OpponentName, g.OpponentRating)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d games\n", len(games), total)
		return nil
	},
}

var gamesRefsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Lists losses against moderately higher-rated opponents",
	Long: `Lists the player's losses against opponents rated moderately above them.
Those opponents' builds are the most useful benchmarks: close enough to be
reachable, strong enough to expose what the player should change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := analyzer.FindReferenceGames(gamesProfile, gamesCiv)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "GAME\tMAP\tCIV\tOPPONENT\tOPP RATING\tDIFF")
		for _, r := range refs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t+%d\n",
				r.GameID, r.Map, r.OpponentCiv, r.OpponentName, r.OpponentRating, r.RatingDiff)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d reference candidates\n", len(refs))
		return nil
	},
}

func init() {
	gamesCmd.PersistentFlags().IntVarP(&gamesProfile, "profile", "p", 0, "AoE4 World profile id")
	gamesCmd.PersistentFlags().StringVarP(&gamesCiv, "civ", "c", "", "civilization slug filter")
	gamesListCmd.Flags().IntVarP(&gamesLimit, "limit", "n", 0, "maximum number of games")
	_ = gamesCmd.MarkPersistentFlagRequired("profile")

	gamesCmd.AddCommand(gamesListCmd)
	gamesCmd.AddCommand(gamesRefsCmd)
	rootCmd.AddCommand(gamesCmd)
}
