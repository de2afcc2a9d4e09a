package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/temifoden/alx-backend-storage/internal/schools"
)

// SchoolsOptions holds flags shared by the schools subcommands.
type SchoolsOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// NewSchoolsCommand creates the schools command group.
func NewSchoolsCommand() *cobra.Command {
	opts := &SchoolsOptions{}

	cmd := &cobra.Command{
		Use:   "schools",
		Short: "Insert and update school documents in MongoDB",
	}

	cmd.PersistentFlags().StringVar(&opts.URI, "uri", "mongodb://localhost:27017", "MongoDB connection URI")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", schools.DefaultDatabase, "database name")
	cmd.PersistentFlags().StringVar(&opts.Collection, "collection", schools.DefaultCollection, "collection name")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "operation timeout")

	cmd.AddCommand(newSchoolsInsertCommand(opts))
	cmd.AddCommand(newSchoolsUpdateTopicsCommand(opts))
	return cmd
}

func newSchoolsInsertCommand(opts *SchoolsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <field=value>...",
		Short: "Insert a school built from field=value pairs and print its _id",
		Long: `Insert a school built from field=value pairs and print its _id.

Examples:
  storage schools insert name=UCSF address="505 Parnassus Ave"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args)
			if err != nil {
				return err
			}
			return withCollection(cmd, opts, func(ctx context.Context, coll schoolsCollection) error {
				id, err := schools.InsertSchool(ctx, coll, fields)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatID(id))
				return nil
			})
		},
	}
}

func newSchoolsUpdateTopicsCommand(opts *SchoolsOptions) *cobra.Command {
	var (
		name   string
		topics []string
	)
	cmd := &cobra.Command{
		Use:   "update-topics",
		Short: "Set the topics of every school with the given name",
		Long: `Set the topics of every school with the given name and print the
number of modified documents.

Examples:
  storage schools update-topics --name "Holberton school" --topic Sys --topic iOS`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCollection(cmd, opts, func(ctx context.Context, coll schoolsCollection) error {
				n, err := schools.UpdateTopics(ctx, coll, name, topics)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "school name to match (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringArrayVar(&topics, "topic", nil, "topic to set (repeatable)")
	return cmd
}

type schoolsCollection interface {
	schools.Inserter
	schools.Updater
}

func withCollection(cmd *cobra.Command, opts *SchoolsOptions, fn func(ctx context.Context, coll schoolsCollection) error) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, opts.Timeout)
	defer cancel()

	coll, disconnect, err := schools.Open(ctx, opts.URI, opts.Database, opts.Collection)
	if err != nil {
		return err
	}
	defer func() { _ = disconnect(context.Background()) }()
	return fn(ctx, coll)
}

// parseFields turns field=value arguments into a document.
func parseFields(args []string) (bson.M, error) {
	doc := bson.M{}
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q: want field=value", a)
		}
		doc[k] = v
	}
	return doc, nil
}

// formatID renders an inserted _id; ObjectIDs print as their hex form.
func formatID(id any) string {
	if h, ok := id.(interface{ Hex() string }); ok {
		return h.Hex()
	}
	return fmt.Sprint(id)
}
