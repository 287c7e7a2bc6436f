package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/adamwoolhether/freesound/client"
	"github.com/adamwoolhether/freesound/client/model"
	"github.com/adamwoolhether/freesound/client/query"
	"github.com/adamwoolhether/freesound/client/request"
	"github.com/spf13/cobra"
)

var previews = []model.Preview{
	model.PreviewHQMP3,
	model.PreviewLQMP3,
	model.PreviewHQOGG,
	model.PreviewLQOGG,
}

// soundView adds the preview URLs, which model.Sound keeps unexported.
type soundView struct {
	model.Sound
	Previews map[model.Preview]string `json:"previews,omitempty"`
}

func viewSound(s model.Sound) soundView {
	v := soundView{Sound: s}
	for _, p := range previews {
		if u := s.PreviewURL(p); u != "" {
			if v.Previews == nil {
				v.Previews = make(map[model.Preview]string)
			}
			v.Previews[p] = u
		}
	}
	return v
}

func viewSounds(page model.SoundPage) model.Page[soundView] {
	out := model.Page[soundView]{
		Count:    page.Count,
		Next:     page.Next,
		Previous: page.Previous,
		Results:  make([]soundView, len(page.Results)),
	}
	for i, s := range page.Results {
		out.Results[i] = viewSound(s)
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// listFlags are shared by every command that returns a page.
type listFlags struct {
	fields   []string
	filter   string
	sort     string
	page     int
	pageSize int
}

func (lf *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&lf.fields, "fields", "f", nil, "Sound fields to return")
	cmd.Flags().StringVar(&lf.filter, "filter", "", `Filter expression, e.g. "duration:[1 TO 5]"`)
	cmd.Flags().StringVarP(&lf.sort, "sort", "s", "", "Result order, e.g. rating_desc")
	cmd.Flags().IntVarP(&lf.page, "page", "p", 0, "1-based page number")
	cmd.Flags().IntVarP(&lf.pageSize, "page-size", "n", 0, "Results per page")
}

func (lf *listFlags) options() []request.ListOption {
	var opts []request.ListOption
	if len(lf.fields) > 0 {
		opts = append(opts, request.WithFields(lf.fields...))
	}
	if lf.filter != "" {
		opts = append(opts, request.WithFilter(lf.filter))
	}
	if lf.sort != "" {
		opts = append(opts, request.WithSort(request.Sort(lf.sort)))
	}
	opts = append(opts, request.WithPage(lf.page), request.WithPageSize(lf.pageSize))
	return opts
}

func newRootCmd(c *client.Client) *cobra.Command {
	root := &cobra.Command{
		Use:           "freesound",
		Short:         "Query the Freesound API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// sound
	root.AddCommand(&cobra.Command{
		Use:   "sound SOUND_ID",
		Short: "Show a sound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := c.Sound(cmd.Context(), id).Await()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewSound(s))
		},
	})

	// similar
	var similarFlags listFlags
	similarCmd := &cobra.Command{
		Use:   "similar SOUND_ID",
		Short: "List sounds similar to a sound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := c.SimilarSounds(cmd.Context(), id, similarFlags.options()...).Await()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewSounds(page))
		},
	}
	similarFlags.register(similarCmd)
	root.AddCommand(similarCmd)

	// search
	var (
		searchFlags listFlags
		exclude     []string
	)
	searchCmd := &cobra.Command{
		Use:   "search TERM...",
		Short: "Text search for sounds",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := query.New()
			for _, term := range args {
				expr.Include(term)
			}
			for _, term := range exclude {
				expr.Exclude(term)
			}
			page, err := c.Search(cmd.Context(), expr, searchFlags.options()...).Await()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewSounds(page))
		},
	}
	searchFlags.register(searchCmd)
	searchCmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "Terms results must not contain")
	root.AddCommand(searchCmd)

	// user
	var userSounds, userPacks bool
	var userFlags listFlags
	userCmd := &cobra.Command{
		Use:   "user USERNAME",
		Short: "Show a user, or list their sounds or packs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case userSounds && userPacks:
				return errors.New("--sounds and --packs are mutually exclusive")
			case userSounds:
				page, err := c.UserSounds(cmd.Context(), args[0], userFlags.options()...).Await()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), viewSounds(page))
			case userPacks:
				page, err := c.UserPacks(cmd.Context(), args[0], userFlags.options()...).Await()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), page)
			}

			u, err := c.User(cmd.Context(), args[0]).Await()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
	userFlags.register(userCmd)
	userCmd.Flags().BoolVar(&userSounds, "sounds", false, "List the user's sounds")
	userCmd.Flags().BoolVar(&userPacks, "packs", false, "List the user's packs")
	root.AddCommand(userCmd)

	// pack
	var packSounds bool
	var packFlags listFlags
	packCmd := &cobra.Command{
		Use:   "pack PACK_ID",
		Short: "Show a pack, or list its sounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if packSounds {
				page, err := c.PackSounds(cmd.Context(), id, packFlags.options()...).Await()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), viewSounds(page))
			}
			p, err := c.Pack(cmd.Context(), id).Await()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	packFlags.register(packCmd)
	packCmd.Flags().BoolVar(&packSounds, "sounds", false, "List the pack's sounds")
	root.AddCommand(packCmd)

	// preview
	var (
		quality      string
		progress     bool
		skipExisting bool
	)
	previewCmd := &cobra.Command{
		Use:   "preview SOUND_ID DEST",
		Short: "Download a sound preview",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := c.Sound(cmd.Context(), id).Await()
			if err != nil {
				return err
			}

			var opts []client.DownloadOption
			if progress {
				opts = append(opts, client.WithProgress())
			}
			if skipExisting {
				opts = append(opts, client.WithSkipExisting())
			}

			path, err := c.DownloadPreview(cmd.Context(), s, model.Preview("preview-"+quality), args[1], opts...).Await()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	previewCmd.Flags().StringVarP(&quality, "quality", "q", "hq-mp3", "One of hq-mp3, lq-mp3, hq-ogg, lq-ogg")
	previewCmd.Flags().BoolVar(&progress, "progress", false, "Log transfer progress")
	previewCmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Do nothing if DEST exists")
	root.AddCommand(previewCmd)

	return root
}
