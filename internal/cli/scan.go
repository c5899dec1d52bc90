package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/repowhisperer/repowhisperer/internal/composer"
	"github.com/repowhisperer/repowhisperer/internal/config"
	"github.com/repowhisperer/repowhisperer/internal/extractor"
	"github.com/repowhisperer/repowhisperer/internal/pipeline"
)

var scanRepoFlag string

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a repository and print its structure summary",
	Long: `Scan runs extraction only and prints what generate would work with:
eligible files, per-language counts, and the prompt plan. No model is
called and nothing is written.

Examples:
  # Summarize the current directory
  repowhisperer scan

  # Summarize a specific repository
  repowhisperer scan --repo /path/to/project
`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanRepoFlag, "repo", "r", ".", "Repository directory to scan")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(scanRepoFlag)
	if err != nil {
		return err
	}
	return runScanReport(cfg, scanRepoFlag)
}

// runScanReport prints the project summary and prompt plan. Shared with
// generate --dry-run.
func runScanReport(cfg *config.Config, repoDir string) error {
	records, projectName, err := pipeline.New(cfg, nil, false).Scan(repoDir)
	if err != nil {
		return err
	}

	summary := extractor.Summarize(records)

	fmt.Printf("Project: %s\n", projectName)
	fmt.Printf("Files: %d\n", summary.TotalFiles)
	fmt.Printf("Classes: %d\n", summary.TotalClasses)
	fmt.Printf("Functions: %d\n", summary.TotalFunctions)
	fmt.Printf("Lines: %d\n", summary.TotalLines)
	if summary.ParseErrors > 0 {
		fmt.Printf("Parse errors: %d\n", summary.ParseErrors)
	}

	fmt.Println("\nLanguages:")
	langs := make([]string, 0, len(summary.ByLanguage))
	for lang := range summary.ByLanguage {
		langs = append(langs, string(lang))
	}
	sort.Strings(langs)
	for _, lang := range langs {
		fmt.Printf("  %s: %d\n", lang, summary.ByLanguage[extractor.Language(lang)])
	}

	units := composer.NewComposer(cfg.Prompts).Compose(projectName, records)
	fmt.Printf("\nPrompt plan (%d units):\n", len(units))
	for _, unit := range units {
		oversized := ""
		if unit.Oversized {
			oversized = " [oversized, truncated]"
		}
		fmt.Printf("  %d. %s (~%d tokens)%s\n", unit.Index, unit.Kind, len(unit.Text)/4, oversized)
	}

	return nil
}
