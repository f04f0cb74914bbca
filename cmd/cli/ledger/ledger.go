package ledger

import (
	"fmt"
	"strings"

	"github.com/crucial707/pwasset/cmd/cli/config"
	"github.com/crucial707/pwasset/cmd/cli/output"
	"github.com/crucial707/pwasset/internal/client"
	"github.com/spf13/cobra"
)

// column is one displayed field of a ledger record.
type column struct {
	Header string
	Field  string
}

// ledgerDef describes one ledger's command group.
type ledgerDef struct {
	Name    string
	Title   string
	Columns []column
	// AddFlags maps --flag names to request fields. Required flags are marked.
	AddFlags []addFlag
}

type addFlag struct {
	Flag     string
	Field    string
	Usage    string
	Required bool
}

var ledgers = []ledgerDef{
	{
		Name:  client.Assets,
		Title: "Assets",
		Columns: []column{
			{"ID", "id"}, {"When", "when"}, {"Old Code", "oldAssetCode"}, {"Serial", "serialNumber"},
			{"Details", "details"}, {"Location", "location"}, {"Area", "areaCode"}, {"Tag", "tag"}, {"Operator", "operator"},
		},
		AddFlags: []addFlag{
			{"location", "location", "park id", true},
			{"details", "details", "item description", true},
			{"old-asset-code", "oldAssetCode", "legacy asset code", false},
			{"sn", "serialNumber", "serial number", false},
		},
	},
	{
		Name:  client.Transfers,
		Title: "Transfers",
		Columns: []column{
			{"ID", "id"}, {"When", "when"}, {"Old Code", "oldAssetCode"}, {"By", "by"},
			{"To", "to"}, {"Reason", "reason"}, {"Operator", "operator"},
		},
		AddFlags: []addFlag{
			{"old-asset-code", "oldAssetCode", "code of the asset being moved", true},
			{"to", "to", "destination park id", true},
			{"by", "by", "who carried out the move", false},
			{"reason", "reason", "reason for the move (default Operation)", false},
			{"date", "whenDate", "date of the move, YYYY-MM-DD", false},
		},
	},
	{
		Name:  client.Disposals,
		Title: "Disposals",
		Columns: []column{
			{"ID", "id"}, {"When", "when"}, {"Location", "location"}, {"Old Code", "oldAssetCode"},
			{"Serial", "serialNumber"}, {"Details", "details"}, {"Reason", "reason"}, {"Operator", "operator"},
		},
		AddFlags: []addFlag{
			{"location", "location", "park id", true},
			{"old-asset-code", "oldAssetCode", "code of the asset being retired", true},
			{"reason-category", "reasonCategory", `"Scrapped", "Sold to Third Party" or "Trade in"`, true},
			{"vendor", "vendor", "buyer or trade-in vendor", false},
			{"sn", "serialNumber", "serial number", false},
			{"details", "details", "item description", false},
			{"date", "whenDate", "date of disposal, YYYY-MM-DD", false},
		},
	},
}

// InitLedgers registers one command group per ledger on the root command.
func InitLedgers(rootCmd *cobra.Command) {
	for _, s := range ledgers {
		rootCmd.AddCommand(groupCmd(s))
	}
}

func groupCmd(s ledgerDef) *cobra.Command {
	cmd := &cobra.Command{
		Use:   s.Name,
		Short: "Manage " + strings.ToLower(s.Title),
	}
	cmd.AddCommand(listCmd(s), exportCmd(s), addCmd(s), updateCmd(s), deleteCmd(s))
	return cmd
}

func authedClient() (*client.Client, error) {
	token, err := config.ReadToken()
	if err != nil {
		return nil, err
	}
	return client.New(config.APIURL(), token), nil
}

func splitLocations(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s ledgerDef) headers() []string {
	h := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		h[i] = c.Header
	}
	return h
}

func (s ledgerDef) rows(records []client.Record) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		row := make([]interface{}, len(s.Columns))
		for i, c := range s.Columns {
			if v, ok := rec[c.Field]; ok && v != nil {
				row[i] = v
			} else {
				row[i] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ==========================
// LIST
// ==========================
func listCmd(s ledgerDef) *cobra.Command {
	var locations string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + strings.ToLower(s.Title) + ", newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			records, err := c.List(cmd.Context(), s.Name, splitLocations(locations))
			if err != nil {
				return err
			}
			output.RenderTable(cmd.OutOrStdout(), s.headers(), s.rows(records))
			return nil
		},
	}
	cmd.Flags().StringVar(&locations, "locations", "", "comma-separated park ids (default all)")
	return cmd
}

// ==========================
// EXPORT
// ==========================
func exportCmd(s ledgerDef) *cobra.Command {
	var locations, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export " + strings.ToLower(s.Title) + " to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = s.Name + ".xlsx"
			}
			c, err := authedClient()
			if err != nil {
				return err
			}
			records, err := c.List(cmd.Context(), s.Name, splitLocations(locations))
			if err != nil {
				return err
			}
			if err := output.WriteXLSX(out, s.Title, s.headers(), s.rows(records)); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s to %s\n", len(records), strings.ToLower(s.Title), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&locations, "locations", "", "comma-separated park ids (default all)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <ledger>.xlsx)")
	return cmd
}

// ==========================
// ADD
// ==========================
func addCmd(s ledgerDef) *cobra.Command {
	values := make(map[string]*string, len(s.AddFlags))
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record to " + strings.ToLower(s.Title),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := make(map[string]string, len(values))
			for _, f := range s.AddFlags {
				if v := *values[f.Flag]; v != "" {
					body[f.Field] = v
				}
			}
			c, err := authedClient()
			if err != nil {
				return err
			}
			item, err := c.Add(cmd.Context(), s.Name, body)
			if err != nil {
				return err
			}
			output.RenderTable(cmd.OutOrStdout(), s.headers(), s.rows([]client.Record{item}))
			return nil
		},
	}
	for _, f := range s.AddFlags {
		values[f.Flag] = cmd.Flags().String(f.Flag, "", f.Usage)
		if f.Required {
			_ = cmd.MarkFlagRequired(f.Flag)
		}
	}
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateCmd(s ledgerDef) *cobra.Command {
	var id string
	var sets []string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit fields of one record",
		Example: "  pwasset " + s.Name + " update --id 6f1c... --set details=\"New mower\" --set when=2024-02-10",
		RunE: func(cmd *cobra.Command, args []string) error {
			after := make(map[string]any, len(sets))
			for _, kv := range sets {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("--set expects field=value, got %q", kv)
				}
				after[k] = v
			}
			c, err := authedClient()
			if err != nil {
				return err
			}
			item, err := c.Update(cmd.Context(), s.Name, id, after)
			if err != nil {
				return err
			}
			output.RenderTable(cmd.OutOrStdout(), s.headers(), s.rows([]client.Record{item}))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "record id")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteCmd(s ledgerDef) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			if err := c.Delete(cmd.Context(), s.Name, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
