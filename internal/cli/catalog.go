package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/tunebox/internal/app"
	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the track catalog from the bundled assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.Application) error {
				if err := a.Seed(cmd.Context()); err != nil {
					return err
				}
				tracks, err := a.Catalog().Tracks(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "catalog ready: %d tracks\n", len(tracks))
				return nil
			})
		},
	}
}

func newTracksCommand(opts *rootOptions) *cobra.Command {
	var (
		artist string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List catalog tracks ordered by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.Application) error {
				if err := a.Seed(cmd.Context()); err != nil {
					return err
				}

				var (
					tracks []domain.Track
					err    error
				)
				if artist != "" {
					tracks, err = a.Catalog().TracksByArtist(cmd.Context(), artist)
				} else {
					tracks, err = a.Catalog().Tracks(cmd.Context())
				}
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd.OutOrStdout(), trackRows(tracks))
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tARTIST\tALBUM\tARTWORK")
				for _, t := range tracks {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.ArtistName, t.AlbumName, yesNo(t.HasArtwork()))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "only list tracks by this artist (case-insensitive)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newArtistsCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "artists",
		Short: "List the built-in artists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.Application) error {
				artists := a.Catalog().Artists()
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), artists)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tBIO")
				for _, artist := range artists {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", artist.ID, artist.Name, artist.Bio)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

type trackRow struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	HasArtwork bool   `json:"hasArtwork"`
}

func trackRows(tracks []domain.Track) []trackRow {
	rows := make([]trackRow, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, trackRow{
			ID:         t.ID,
			Title:      t.Title,
			Artist:     t.ArtistName,
			Album:      t.AlbumName,
			HasArtwork: t.HasArtwork(),
		})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
