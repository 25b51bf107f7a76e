// Record commands manage the entries, terms, and users fields relate to.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/relations/pkg/kinds"
	"github.com/mesh-intelligence/relations/pkg/types"
)

var recordKinds = []string{kinds.Entries, kinds.Terms, kinds.Users}

func (a *app) newRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage the records relationship fields point at",
	}
	cmd.AddCommand(a.newRecordsAddCmd())
	cmd.AddCommand(a.newRecordsGetCmd())
	cmd.AddCommand(a.newRecordsListCmd())
	cmd.AddCommand(a.newRecordsDeleteCmd())
	return cmd
}

// checkKind rejects kinds no relationship kind reads.
func checkKind(kind string) error {
	for _, k := range recordKinds {
		if k == kind {
			return nil
		}
	}
	return userError(fmt.Errorf("%w: %q (valid: %s)", types.ErrInvalidKind, kind, strings.Join(recordKinds, ", ")))
}

type recordOpts struct {
	handle    string
	title     string
	slug      string
	parent    string
	editURL   string
	published bool
	data      string
}

func (a *app) newRecordsAddCmd() *cobra.Command {
	var o recordOpts
	cmd := &cobra.Command{
		Use:   "add <kind>",
		Short: "Create a record",
		Long: `Add creates a record of the given kind (entries, terms, users).

Terms without --handle get the handle "<parent>::<slug>".

Example:
  relations records add entries --title "Hello" --handle hello --parent blog --published
  relations records add terms --title "Go" --slug go --parent tags
  relations records add users --title "Ada" --handle ada --data '{"email":"ada@example.com"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if err := checkKind(kind); err != nil {
				return err
			}

			e := &types.Entry{
				Kind:         kind,
				RecordHandle: o.handle,
				RecordTitle:  o.title,
				Slug:         o.slug,
				Parent:       o.parent,
				IsPublished:  o.published,
				URL:          o.editURL,
			}
			if kind == kinds.Terms && e.RecordHandle == "" && e.Parent != "" && e.Slug != "" {
				e.RecordHandle = kinds.TermHandle(e.Parent, e.Slug)
			}
			if o.data != "" {
				if err := json.Unmarshal([]byte(o.data), &e.Data); err != nil {
					return userError(fmt.Errorf("invalid --data: %w", err))
				}
			}

			_, store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			id, err := store.Set(cmd.Context(), e)
			if err != nil {
				return classify(fmt.Errorf("create record: %w", err))
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s record: %s\n", kind, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&o.title, "title", "", "record title (required)")
	cmd.Flags().StringVar(&o.handle, "handle", "", "record handle")
	cmd.Flags().StringVar(&o.slug, "slug", "", "record slug")
	cmd.Flags().StringVar(&o.parent, "parent", "", "collection, taxonomy, or group")
	cmd.Flags().StringVar(&o.editURL, "edit-url", "", "URL of the record's edit screen")
	cmd.Flags().BoolVar(&o.published, "published", false, "mark the record published")
	cmd.Flags().StringVar(&o.data, "data", "", "extra attributes as a JSON object")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) newRecordsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id-or-handle>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkKind(args[0]); err != nil {
				return err
			}
			_, store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			rec, err := store.Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return classify(fmt.Errorf("get %s %q: %w", args[0], args[1], err))
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			e := rec.(*types.Entry)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID:       ", e.RecordID)
			fmt.Fprintln(out, "Kind:     ", e.Kind)
			fmt.Fprintln(out, "Handle:   ", e.RecordHandle)
			fmt.Fprintln(out, "Title:    ", e.RecordTitle)
			fmt.Fprintln(out, "Slug:     ", e.Slug)
			fmt.Fprintln(out, "Parent:   ", e.Parent)
			fmt.Fprintln(out, "Published:", e.IsPublished)
			fmt.Fprintln(out, "Edit URL: ", e.URL)
			return nil
		},
	}
}

func (a *app) newRecordsListCmd() *cobra.Command {
	var q types.ListQuery
	var parent string
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List records of a kind",
		Example: `  relations records list entries
  relations records list entries --parent blog --sort title --order desc
  relations records list terms --search go --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkKind(args[0]); err != nil {
				return err
			}
			if parent != "" {
				q.Params = map[string]string{types.ParamParent: parent}
			}

			_, store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			page, err := store.List(cmd.Context(), args[0], q)
			if err != nil {
				return classify(fmt.Errorf("list %s: %w", args[0], err))
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"data": page.Items, "total": page.Total})
			}
			printRecords(cmd, page)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "match title, handle, or slug")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "sort column (default: title)")
	cmd.Flags().StringVar(&q.Direction, "order", types.SortAsc, "asc or desc")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PerPage, "per-page", types.DefaultPerPage, "records per page")
	cmd.Flags().StringVar(&parent, "parent", "", "comma-separated collections, taxonomies, or groups")
	return cmd
}

func (a *app) newRecordsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkKind(args[0]); err != nil {
				return err
			}
			_, store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			// Accept a handle as well as an ID.
			rec, err := store.Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return classify(fmt.Errorf("delete %s %q: %w", args[0], args[1], err))
			}
			id := rec.(*types.Entry).RecordID
			if err := store.Delete(cmd.Context(), args[0], id); err != nil {
				return classify(fmt.Errorf("delete %s %q: %w", args[0], args[1], err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s record: %s\n", args[0], id)
			return nil
		},
	}
}

// printRecords prints a page of records in a human-readable table.
func printRecords(cmd *cobra.Command, page types.ListPage) {
	out := cmd.OutOrStdout()
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No records found.")
		return
	}
	rows := make([][]string, 0, len(page.Items))
	for _, r := range page.Items {
		e := r.(*types.Entry)
		shortID := e.RecordID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		rows = append(rows, []string{
			shortID,
			truncate(e.RecordHandle, 24),
			truncate(e.RecordTitle, 40),
			e.Parent,
			strconv.FormatBool(e.IsPublished),
		})
	}
	printTable(out, []string{"ID", "HANDLE", "TITLE", "PARENT", "PUBLISHED"}, rows)
	fmt.Fprintf(out, "Showing %d of %d record(s)\n", len(page.Items), page.Total)
}
