// Package cli implements the tunebox command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/tunebox/internal/app"
	"github.com/tejashwikalptaru/tunebox/internal/config"
)

type rootOptions struct {
	configPath string
	appOptions []app.Option
}

// NewRootCommand builds the tunebox command tree.
// appOptions are passed to every application the commands create.
func NewRootCommand(appOptions ...app.Option) *cobra.Command {
	opts := &rootOptions{appOptions: appOptions}

	root := &cobra.Command{
		Use:           "tunebox",
		Short:         "tunebox is a small music catalog and player service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		newSeedCommand(opts),
		newTracksCommand(opts),
		newArtistsCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp loads configuration, builds the application and shuts it down after fn.
func (o *rootOptions) withApp(ctx context.Context, fn func(*app.Application) error) (err error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	application, err := app.NewApplication(ctx, cfg, o.appOptions...)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := application.Shutdown(); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()
	return fn(application)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
