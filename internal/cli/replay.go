package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	storage "github.com/temifoden/alx-backend-storage"
	"github.com/temifoden/alx-backend-storage/internal/codec"
)

// ValidReplayFormats defines the accepted replay --format values.
var ValidReplayFormats = append([]string{"text"}, codec.Names()...)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Format string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [operation]",
		Short: "Print the recorded call history of an operation",
		Long: `Print the recorded call history of an operation (default Cache.Store).

The text format prints a header with the call count followed by one line
per call pairing its input with its output. The json and msgpack formats
export the same transcript for other tools.

Examples:
  storage replay
  storage replay --format json Cache.Store`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidReplayFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidReplayFormats)
			}
			id := operationArg(args)
			return withCache(cmd, opts.RootOptions, func(ctx context.Context, c *storage.Cache) error {
				if opts.Format == "text" {
					return c.Replay(ctx, id, cmd.OutOrStdout())
				}
				t, err := c.History(ctx, id)
				if err != nil {
					return err
				}
				cd, err := codec.ByName(opts.Format)
				if err != nil {
					return err
				}
				data, err := cd.Marshal(t)
				if err != nil {
					return fmt.Errorf("encode transcript: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json|msgpack)")
	return cmd
}

// NewCallsCommand creates the calls command.
func NewCallsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calls [operation]",
		Short: "Print the call counter of an operation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := operationArg(args)
			return withCache(cmd, rootOpts, func(ctx context.Context, c *storage.Cache) error {
				n, err := c.Calls(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove every value, counter and call log from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, rootOpts, func(ctx context.Context, c *storage.Cache) error {
				if err := c.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			})
		},
	}
}

func operationArg(args []string) storage.Identity {
	if len(args) == 0 {
		return storage.StoreOp
	}
	return storage.Identity(args[0])
}
