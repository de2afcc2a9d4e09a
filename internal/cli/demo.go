package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	storage "github.com/temifoden/alx-backend-storage"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Store foo, bar and 42, read them back and replay the history",
		Long: `Run the walkthrough scenario on a freshly reset backend: store "foo",
"bar" and 42, read each value back, print the store call counter and
replay the recorded calls.

Examples:
  storage demo --backend memory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, rootOpts, func(ctx context.Context, c *storage.Cache) error {
				return runDemo(ctx, cmd, c)
			})
		},
	}
}

func runDemo(ctx context.Context, cmd *cobra.Command, c *storage.Cache) error {
	out := cmd.OutOrStdout()
	if err := c.Reset(ctx); err != nil {
		return err
	}

	values := []storage.Value{storage.Text("foo"), storage.Text("bar"), storage.Integer(42)}
	keys := make([]string, len(values))
	for i, v := range values {
		k, err := c.Store(ctx, v)
		if err != nil {
			return err
		}
		keys[i] = k
		fmt.Fprintf(out, "stored %s -> %s\n", v.Repr(), k)
	}

	raw, _, err := c.Get(ctx, keys[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "get %s = %q\n", keys[0], raw)

	s, _, err := c.GetStr(ctx, keys[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "get_str %s = %s\n", keys[1], s)

	n, _, err := c.GetInt(ctx, keys[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "get_int %s = %d\n", keys[2], n)

	calls, err := c.Calls(ctx, storage.StoreOp)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s calls: %d\n\n", storage.StoreOp, calls)

	return c.Replay(ctx, storage.StoreOp, out)
}
