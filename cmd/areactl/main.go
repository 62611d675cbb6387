// Command areactl runs the analyzer's backend calls from a terminal.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rahul4469/area-analyzer/internal/config"
	"github.com/rahul4469/area-analyzer/internal/models"
	"github.com/rahul4469/area-analyzer/internal/services"
)

var (
	backendURL string
	timeout    time.Duration
	outputPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults, err := config.LoadBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using built-in defaults\n", err)
		defaults = config.Defaults().Backend
	}

	rootCmd := &cobra.Command{
		Use:   "areactl",
		Short: "Query the area analysis backend",
		Long: `areactl sends the same requests as the web UI: analyze one area,
compare several, upload a dataset or download the current one.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", defaults.APIBase, "Backend base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaults.Timeout, "Request timeout")

	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download the backend's current dataset",
		Args:  cobra.NoArgs,
		RunE:  runDownload,
	}
	downloadCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: name sent by the backend)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "analyze <area>",
			Short: "Analyze one area",
			Args:  cobra.ExactArgs(1),
			RunE:  runAnalyze,
		},
		&cobra.Command{
			Use:   "compare <areas>...",
			Short: "Compare several areas (comma list or separate args)",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runCompare,
		},
		&cobra.Command{
			Use:   "upload <file.xlsx>",
			Short: "Replace the backend dataset with a spreadsheet",
			Args:  cobra.ExactArgs(1),
			RunE:  runUpload,
		},
		downloadCmd,
	)
	return rootCmd
}

func newClient() *services.BackendClient {
	return services.NewBackendClient(backendURL, timeout)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	queries := services.NewQueryService(newClient())
	result := queries.Analyze(cmd.Context(), models.NewPanel(), args[0])
	return printResult(cmd.OutOrStdout(), result)
}

func runCompare(cmd *cobra.Command, args []string) error {
	queries := services.NewQueryService(newClient())
	result := queries.Compare(cmd.Context(), models.NewPanel(), strings.Join(args, ","))
	return printResult(cmd.OutOrStdout(), result)
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
	default:
		return models.ErrUnsupportedFile
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	queries := services.NewQueryService(newClient())
	kind, msg := queries.Upload(cmd.Context(), models.NewPanel(), filepath.Base(path), f)
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	if kind == models.MessageError {
		return errors.New("upload failed")
	}
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	dl, err := newClient().Download(cmd.Context())
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer dl.Body.Close()

	path := outputPath
	if path == "" {
		path = filepath.Base(dl.Filename)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	n, err := io.Copy(out, dl.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, n)
	return nil
}

// printResult prints the result document. A failed call prints the same
// {ok:false,error} object the UI shows and exits non-zero.
func printResult(w io.Writer, result any) error {
	fmt.Fprintln(w, models.PrettyJSON(result))
	if doc, ok := result.(map[string]any); ok && doc["ok"] == false {
		return errors.New("request failed")
	}
	return nil
}
