package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/diwise/oresm/pkg/oresm"
	"github.com/diwise/oresm/pkg/oresm/client"
	"github.com/spf13/cobra"
)

func findCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "find <type> <id>",
		Short: "Fetch a single record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newType(opts, args[0])
			if err != nil {
				return err
			}

			m, err := t.Find(cmd.Context(), args[1])
			if err != nil {
				return fmt.Errorf("find %s %s: %w", args[0], args[1], err)
			}

			return printJSON(cmd.OutOrStdout(), m.Entity())
		},
	}
}

func listCmd(opts *options) *cobra.Command {
	var limit, offset uint64

	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "Fetch all records of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newType(opts, args[0])
			if err != nil {
				return err
			}

			params := []client.RequestDecoratorFunc{}
			if limit > 0 {
				params = append(params, client.Limit(limit))
			}
			if offset > 0 {
				params = append(params, client.Offset(offset))
			}

			c, err := t.Get(cmd.Context(), params...)
			if err != nil {
				return fmt.Errorf("list %s: %w", args[0], err)
			}

			return printJSON(cmd.OutOrStdout(), c.Entities())
		},
	}

	cmd.Flags().Uint64Var(&limit, "limit", 0, "maximum number of records to fetch")
	cmd.Flags().Uint64Var(&offset, "offset", 0, "number of records to skip")

	return cmd
}

func createCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <type> [name=value...]",
		Short: "Create a new record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newType(opts, args[0])
			if err != nil {
				return err
			}

			data, err := parseAttributes(args[1:])
			if err != nil {
				return err
			}

			m := t.New(nil)
			if err = m.Save(cmd.Context(), data); err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}

			return printJSON(cmd.OutOrStdout(), m.Entity())
		},
	}
}

func updateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "update <type> <id> [name=value...]",
		Short: "Fetch a record, merge the given attributes and replace it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newType(opts, args[0])
			if err != nil {
				return err
			}

			data, err := parseAttributes(args[2:])
			if err != nil {
				return err
			}

			m, err := t.Find(cmd.Context(), args[1])
			if err != nil {
				return fmt.Errorf("update %s %s: %w", args[0], args[1], err)
			}

			if err = m.Save(cmd.Context(), data); err != nil {
				return fmt.Errorf("update %s %s: %w", args[0], args[1], err)
			}

			return printJSON(cmd.OutOrStdout(), m.Entity())
		},
	}
}

func patchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "patch <type> <id> name=value...",
		Short: "Send the given attributes as a partial update",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newType(opts, args[0])
			if err != nil {
				return err
			}

			data, err := parseAttributes(args[2:])
			if err != nil {
				return err
			}

			m := t.New(oresm.Attributes{t.Key(): args[1]})
			m.ClearDirty()

			if err = m.Patch(cmd.Context(), data); err != nil {
				return fmt.Errorf("patch %s %s: %w", args[0], args[1], err)
			}

			return printJSON(cmd.OutOrStdout(), m.Entity())
		},
	}
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newType(opts, args[0])
			if err != nil {
				return err
			}

			m := t.New(oresm.Attributes{t.Key(): args[1]})
			if err = m.Delete(cmd.Context()); err != nil {
				return fmt.Errorf("delete %s %s: %w", args[0], args[1], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", m.EndpointWithKey())
			return nil
		},
	}
}

// parseAttributes turns name=value arguments into attributes. Values that are
// valid JSON keep their decoded type, anything else is used as a string.
func parseAttributes(args []string) (oresm.Attributes, error) {
	attrs := oresm.Attributes{}

	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("attribute %q is not on the form name=value", arg)
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			attrs[name] = decoded
		} else {
			attrs[name] = value
		}
	}

	return attrs, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
