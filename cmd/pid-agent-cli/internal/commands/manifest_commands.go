package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
	"github.com/mcp2everything/PID-agent/internal/pkg/manifest"

	"github.com/spf13/cobra"
)

// ManifestCommandHandler encapsulates logic for dependency-manifest checks via CLI.
type ManifestCommandHandler struct {
	logger logger.Logger
}

// NewManifestCommandHandler initializes and returns a ManifestCommandHandler instance.
func NewManifestCommandHandler() (*ManifestCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &ManifestCommandHandler{logger: loggerInstance}, nil
}

// CheckManifestCmd parses a dependency manifest and reports every malformed line
func (commandHandler *ManifestCommandHandler) CheckManifestCmd(cmd *cobra.Command, args []string) {
	file, err := os.Open(filepath.Clean(args[0]))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = file.Close() }()

	parsed, parseErrs, err := manifest.Parse(file)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	for _, e := range parseErrs {
		fmt.Fprintln(os.Stderr, e)
	}

	fmt.Printf("%d requirements in %d sections\n", len(parsed.Requirements), len(parsed.Sections))
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		for _, req := range parsed.Requirements {
			if req.MinVersion != "" {
				fmt.Printf("%-12s %s>=%s\n", req.Section, req.Name, req.MinVersion)
			} else {
				fmt.Printf("%-12s %s\n", req.Section, req.Name)
			}
		}
	}

	if len(parseErrs) > 0 {
		commandHandler.logger.Error(fmt.Sprintf("%d malformed lines in %s", len(parseErrs), args[0]))
		os.Exit(1)
	}
}

// InitManifestCommands registers manifest-related commands
func InitManifestCommands(rootCmd *cobra.Command) error {
	handler, err := NewManifestCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create manifest command handler %w", err)
	}

	var manifestCmd = &cobra.Command{
		Use:   "manifest",
		Short: "Dependency manifest operations",
	}

	var checkCmd = &cobra.Command{
		Use:   "check <file>",
		Short: "Check a dependency manifest for malformed requirement lines",
		Args:  cobra.ExactArgs(1),
		Run:   handler.CheckManifestCmd,
	}
	checkCmd.Flags().BoolP("verbose", "v", false, "Print every parsed requirement")
	manifestCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(manifestCmd)

	return nil
}
