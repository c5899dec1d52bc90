package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/repowhisperer/repowhisperer/internal/config"
	"github.com/repowhisperer/repowhisperer/internal/inference"
	"github.com/repowhisperer/repowhisperer/internal/pipeline"
)

var (
	repoFlag   string
	outputFlag string
	dryRunFlag bool
	quietFlag  bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a README for a repository",
	Long: `Generate scans the repository, builds a prompt sequence from the extracted
code structure, sends it to the configured model, and writes the assembled
README.

The provider API key is read from the environment: OPENAI_API_KEY for the
openai provider, GEMINI_API_KEY for gemini.

Examples:
  # Generate a README for the current directory
  repowhisperer generate

  # Generate for a specific repository with a custom output path
  repowhisperer generate --repo /path/to/project --output docs/README.md

  # Show the scan and prompt plan without calling the model
  repowhisperer generate --dry-run
`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&repoFlag, "repo", "r", ".", "Repository directory to document")
	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output path (default <repo>/README.md)")
	generateCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Scan and compose only; do not call the model")
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn().Msg("interrupted, cancelling generation")
		cancel()
	}()

	cfg, err := loadConfig(repoFlag)
	if err != nil {
		return err
	}

	outputPath := outputFlag
	if outputPath == "" {
		if cfg.Output.Path != "" {
			outputPath = filepath.Join(repoFlag, cfg.Output.Path)
		} else {
			outputPath = filepath.Join(repoFlag, "README.md")
		}
	}

	if dryRunFlag {
		return runScanReport(cfg, repoFlag)
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.New(cfg, gen, !quietFlag).Run(ctx, repoFlag, outputPath)
	if err != nil {
		return err
	}

	if !quietFlag {
		fmt.Printf("README written to %s (%d files, %d prompts", result.OutputPath, result.FileCount, result.UnitCount)
		if len(result.Issues) > 0 {
			fmt.Printf(", %d issues", len(result.Issues))
		}
		fmt.Println(")")
	}
	return nil
}

// loadConfig loads configuration from --config or the repository directory.
func loadConfig(repoDir string) (*config.Config, error) {
	if cfgFile != "" {
		return config.NewFileLoader(cfgFile).Load()
	}
	return config.LoadConfigFromDir(repoDir)
}

// newGenerator selects the provider from configuration and reads its API key
// from the environment.
func newGenerator(ctx context.Context, cfg *config.Config) (inference.Generator, error) {
	switch cfg.Model.Provider {
	case "openai":
		return inference.NewOpenAIGenerator(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"), cfg.Model.Name)
	case "gemini":
		return inference.NewGeminiGenerator(ctx, os.Getenv("GEMINI_API_KEY"), cfg.Model.Name)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}
