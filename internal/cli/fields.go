// Field commands: list configured fields, build preload payloads, process
// submitted values, and print validation rules.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/relations/pkg/types"
)

func (a *app) newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the relationship fields configured in config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			fields := e.registry.Fields()
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), fields)
			}
			if len(fields) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No fields configured.")
				return nil
			}
			rows := make([][]string, 0, len(fields))
			for _, f := range fields {
				maxItems := "-"
				if n := f.Config.MaxItems(); n > 0 {
					maxItems = strconv.Itoa(n)
				}
				rows = append(rows, []string{f.Handle, f.Type, maxItems, f.Config.Mode()})
			}
			printTable(cmd.OutOrStdout(), []string{"HANDLE", "KIND", "MAX", "MODE"}, rows)
			return nil
		},
	}
}

func (a *app) newPreloadCmd() *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "preload <field>",
		Short: "Print the widget bootstrap payload for a field",
		Long: `Preload resolves the field's current value and prints the payload the
selection widget starts from. The value comes from config.yaml unless
--value supplies a JSON value.

Example:
  relations preload related_posts
  relations preload related_posts --value '["alpha","beta"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			field, ft, err := e.registry.Field(args[0])
			if err != nil {
				return classify(err)
			}
			if cmd.Flags().Changed("value") {
				if field.Value, err = parseValue(value); err != nil {
					return err
				}
			}

			payload, err := ft.Preload(cmd.Context(), field)
			if err != nil {
				return classify(err)
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "field value as JSON (overrides config.yaml)")
	return cmd
}

func (a *app) newProcessCmd() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "process <field> [ids...]",
		Short: "Validate a submitted value and print its stored shape",
		Long: `Process validates the identifiers against the field's rules and prints
the value that would be stored: null when empty, a single identifier for
single-select fields, a list otherwise. Use --raw to submit any JSON value.

Example:
  relations process author ada
  relations process related_posts alpha beta
  relations process related_posts --raw '"alpha"'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			field, ft, err := e.registry.Field(args[0])
			if err != nil {
				return classify(err)
			}

			var submitted any
			switch {
			case cmd.Flags().Changed("raw"):
				if submitted, err = parseValue(raw); err != nil {
					return err
				}
			case len(args) > 1:
				submitted = args[1:]
			}

			if err := ft.Validate(field.Config, submitted); err != nil {
				return classify(err)
			}
			stored := ft.Process(field.Config, submitted)

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"field": field.Handle, "value": stored})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatStored(stored))
			return nil
		},
	}
	cmd.Flags().StringVar(&raw, "raw", "", "submitted value as JSON")
	return cmd
}

func (a *app) newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules <field>",
		Short: "Print the validation rules of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			field, ft, err := e.registry.Field(args[0])
			if err != nil {
				return classify(err)
			}
			rules := ft.Rules(field.Config)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), rules)
			}
			for _, r := range rules {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
}

// parseValue decodes a JSON value given on the command line.
func parseValue(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, userError(fmt.Errorf("invalid JSON value %q: %w", s, err))
	}
	return v, nil
}

// formatStored renders a stored value for text output.
func formatStored(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case types.CanonicalValue:
		return strings.Join(s.Strings(), "\n")
	}
	return cast.ToString(v)
}
