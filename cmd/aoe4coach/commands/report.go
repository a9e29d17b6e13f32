package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Works with previously written coaching reports",
}

var reportOpenCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Opens a coaching report, the most recent one by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error
		if len(args) == 1 {
			path = args[0]
		} else if path, err = latestReport(cfg.ReportsDir); err != nil {
			return err
		}
		fmt.Println(path)
		return browser.OpenFile(path)
	},
}

func latestReport(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var reports []os.DirEntry
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".md" {
			reports = append(reports, e)
		}
	}
	if len(reports) == 0 {
		return "", fmt.Errorf("no reports found in %s", dir)
	}

	sort.Slice(reports, func(i, j int) bool {
		fi, _ := reports[i].Info()
		fj, _ := reports[j].Info()
		if fi == nil || fj == nil {
			return false
		}
		return fi.ModTime().After(fj.ModTime())
	})
	return filepath.Join(dir, reports[0].Name()), nil
}

func init() {
	reportCmd.AddCommand(reportOpenCmd)
	rootCmd.AddCommand(reportCmd)
}
