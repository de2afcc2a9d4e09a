package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	storage "github.com/temifoden/alx-backend-storage"
)

// Value types accepted by store --type and get --as.
var (
	ValidStoreTypes = []string{"text", "bytes", "int", "float"}
	ValidGetTypes   = []string{"raw", "text", "int", "float"}
)

// StoreOptions holds flags for the store command.
type StoreOptions struct {
	*RootOptions
	Type string
}

// NewStoreCommand creates the store command.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "store <value>",
		Short: "Store a value under a new random key",
		Long: `Store a value under a freshly generated key and print the key.

Examples:
  storage store hello
  storage store --type int 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseValue(opts.Type, args[0])
			if err != nil {
				return err
			}
			return withCache(cmd, opts.RootOptions, func(ctx context.Context, c *storage.Cache) error {
				key, err := c.Store(ctx, v)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "text", "value type (text|bytes|int|float)")
	return cmd
}

// parseValue converts a command-line argument to a Value of the given type.
func parseValue(typ, arg string) (storage.Value, error) {
	switch typ {
	case "text":
		return storage.Text(arg), nil
	case "bytes":
		return storage.Bytes([]byte(arg)), nil
	case "int":
		i, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return storage.Value{}, fmt.Errorf("invalid int %q: %w", arg, err)
		}
		return storage.Integer(i), nil
	case "float":
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return storage.Value{}, fmt.Errorf("invalid float %q: %w", arg, err)
		}
		return storage.Float(f), nil
	default:
		return storage.Value{}, fmt.Errorf("invalid type %q: must be one of %v", typ, ValidStoreTypes)
	}
}

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	As string
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Read the value stored under a key",
		Long: `Read the value stored under a key, decoded as --as. A missing key
prints (nil).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidGetTypes, opts.As) {
				return fmt.Errorf("invalid --as %q: must be one of %v", opts.As, ValidGetTypes)
			}
			return withCache(cmd, opts.RootOptions, func(ctx context.Context, c *storage.Cache) error {
				out, ok, err := getAs(ctx, c, args[0], opts.As)
				if err != nil {
					return err
				}
				if !ok {
					out = "(nil)"
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "raw", "decode as (raw|text|int|float)")
	return cmd
}

func getAs(ctx context.Context, c *storage.Cache, key, as string) (string, bool, error) {
	switch as {
	case "text":
		s, ok, err := c.GetStr(ctx, key)
		return s, ok, err
	case "int":
		i, ok, err := c.GetInt(ctx, key)
		return strconv.FormatInt(i, 10), ok, err
	case "float":
		f, ok, err := c.GetFloat(ctx, key)
		return strconv.FormatFloat(f, 'g', -1, 64), ok, err
	default:
		raw, ok, err := c.Get(ctx, key)
		return strconv.Quote(string(raw)), ok, err
	}
}
