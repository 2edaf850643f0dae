package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emirozbir/alert2jira/internal/collectors"
	"github.com/emirozbir/alert2jira/internal/config"
	"github.com/emirozbir/alert2jira/internal/database"
	"github.com/emirozbir/alert2jira/internal/dispatcher"
	"github.com/emirozbir/alert2jira/internal/document"
	"github.com/emirozbir/alert2jira/internal/formatter"
	"github.com/emirozbir/alert2jira/internal/jira"
	"github.com/emirozbir/alert2jira/internal/models"
	"github.com/emirozbir/alert2jira/internal/ui"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, out io.Writer) int {
	root := newRootCmd(out)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var apiErr *jira.APIError
		switch {
		case errors.As(err, &apiErr):
			fmt.Fprintf(out, "Failed to create Jira issue. Status code: %d\n", apiErr.StatusCode)
			fmt.Fprintf(out, "Response: %s\n", apiErr.Body)
		case errors.Is(err, collectors.ErrNoAlertPath):
			fmt.Fprintln(out, "Error: Alert JSON file argument missing")
		default:
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
	noProgress bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "alert2jira <alert-file> [extra args...]",
		Short: "Create a Jira issue from a SIEM alert",
		Long: `Reads one SIEM alert (JSON) from a file, or "-" for stdin, and creates a
Jira issue with a structured description. Extra arguments are ignored so the
binary can be used directly as a Wazuh integration script.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return collectors.ErrNoAlertPath
			}
			return createTicket(cmd.Context(), opts, args[0], out)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress spinner")

	cmd.AddCommand(newRenderCmd(out))

	return cmd
}

func createTicket(ctx context.Context, opts *rootOptions, path string, out io.Writer) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer logger.Sync()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Jira.Validate(); err != nil {
		return err
	}

	alert, err := collectors.NewAlertFileCollector().ReadAlert(path)
	if err != nil {
		return err
	}

	var history dispatcher.HistoryStore
	if cfg.Database.Path != "" {
		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		history = db
	}

	var progress ui.ProgressReporter = ui.NoOpProgress{}
	if !opts.noProgress {
		progress = ui.NewSpinnerProgress()
	}

	d := dispatcher.New(jira.NewClient(cfg.Jira, logger), history, logger)
	result, err := d.Dispatch(ctx, alert, progress)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Successfully created Jira issue: %s\n", result.IssueKey)
	return nil
}

func newRenderCmd(out io.Writer) *cobra.Command {
	var (
		outputFormat string
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "render <alert-file>",
		Short: "Print the ticket that would be created, without contacting Jira",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return collectors.ErrNoAlertPath
			}

			alert, err := collectors.NewAlertFileCollector().ReadAlert(args[0])
			if err != nil {
				return err
			}

			summary, doc := document.Summary(alert), document.Render(alert)

			switch outputFormat {
			case "json":
				description, err := json.Marshal(doc)
				if err != nil {
					return errors.Wrap(err, "failed to encode document")
				}
				output, err := json.MarshalIndent(models.RenderResponse{
					Summary:     summary,
					Description: description,
				}, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to marshal result")
				}
				fmt.Fprintln(out, string(output))
			case "pretty":
				fmt.Fprint(out, formatter.NewFormatter(!noColor).FormatDocument(summary, doc))
			default:
				return errors.Newf("unknown output format %q", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFormat, "format", "pretty", "Output format: 'pretty' or 'json'")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
