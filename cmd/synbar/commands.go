package main

import (
	"fmt"

	"github.com/genricoloni/synbar/internal/audio"
	"github.com/genricoloni/synbar/internal/player"
	"github.com/genricoloni/synbar/internal/wallpaper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRootCommand builds the synbar command tree, one subcommand per bar module
func newRootCommand(
	logger *zap.Logger,
	wallpapers *wallpaper.Controller,
	media *player.Module,
	sound *audio.Module,
) *cobra.Command {
	root := &cobra.Command{
		Use:           "synbar",
		Short:         "Status bar helper modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "wallpaper [next|prev|scroll-up|scroll-down|set:<n>|select]",
			Short: "Cycle through the wallpaper directory",
			Args:  cobra.ArbitraryArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), wallpapers.Run(cmd.Context(), firstArg(args)))
			},
		},
		newPlayerCommand(logger, media),
		&cobra.Command{
			Use:   "player-color",
			Short: "Print the accent colour of the current album art",
			Args:  cobra.ArbitraryArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), media.Color(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "audio [change-sink|vol-up|vol-down|mute|audio]",
			Short: "Show or change the audio output",
			Args:  cobra.ArbitraryArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), sound.Run(cmd.Context(), firstArg(args)))
			},
		},
	)

	return root
}

func newPlayerCommand(logger *zap.Logger, media *player.Module) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "player [previous|next|playpause]",
		Short: "Show or control the media player",
		Args:  cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			switch {
			case follow:
				if err := media.Follow(cmd.Context(), out); err != nil {
					logger.Warn("Follow mode ended", zap.Error(err))
				}
			case len(args) > 0:
				fmt.Fprintln(out, media.Action(cmd.Context(), args[0]))
			default:
				fmt.Fprintln(out, media.Display(cmd.Context()))
			}
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "keep running and print a line on every change")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
