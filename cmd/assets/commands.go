package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"asset-inventory/internal/assetclient"
	"asset-inventory/internal/export"
	"asset-inventory/internal/filter"
	"asset-inventory/internal/inventory"
	"asset-inventory/internal/models"
	"asset-inventory/internal/summary"
	"asset-inventory/pkg/importer"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search   string
		category string
		page     int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets, filtered and paginated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Refresh(cmd.Context()); err != nil {
				return err
			}

			p := filter.NewPipeline().SetSearchTerm(search)
			if category != "" {
				p.ToggleCategory(models.Category(category))
			}
			p.SetCurrentPage(page)
			view := p.View(a.store.Assets())

			if len(view.Filtered) == 0 {
				fmt.Fprintln(a.out, "No assets found")
				return nil
			}
			if err := printTable(a.out, view.Page, (view.CurrentPage-1)*filter.PageSize); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\nPage %d of %d (%d assets)\n", view.CurrentPage, view.TotalPages, len(view.Filtered))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or serial number, case insensitive")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := a.client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%s\n", asset.ID)
			fmt.Fprintf(w, "Name:\t%s\n", asset.Name)
			fmt.Fprintf(w, "Serial No:\t%s\n", asset.SerialNo)
			fmt.Fprintf(w, "Category:\t%s\n", asset.CategoryOrDefault())
			fmt.Fprintf(w, "Assign Date:\t%s\n", asset.AssignDate)
			return w.Flush()
		},
	}
}

// draftFlags are the form fields shared by add and edit
type draftFlags struct {
	name     string
	serialNo string
	date     string
	category string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "asset name (2 to 100 characters)")
	cmd.Flags().StringVar(&f.serialNo, "serial", "", "serial number")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "assign date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category (default Other)")
}

// apply copies the flags the user set onto d
func (f *draftFlags) apply(cmd *cobra.Command, d models.Asset) models.Asset {
	if cmd.Flags().Changed("name") {
		d.Name = f.name
	}
	if cmd.Flags().Changed("serial") {
		d.SerialNo = f.serialNo
	}
	if cmd.Flags().Changed("date") {
		d.AssignDate = f.date
	}
	if cmd.Flags().Changed("category") {
		d.Category = models.Category(f.category)
	}
	return d
}

func newAddCmd(a *app) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.store.SubmitDraft(cmd.Context(), f.apply(cmd, a.store.Draft()))
			return a.reportFields(err)
		},
	}
	f.register(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an asset; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Refresh(cmd.Context()); err != nil {
				return err
			}
			asset, ok := a.store.Find(args[0])
			if !ok {
				return fmt.Errorf("asset %q not found", args[0])
			}
			a.store.BeginEdit(asset)
			a.store.SetDraft(f.apply(cmd, a.store.Draft()))
			return a.reportFields(a.store.Submit(cmd.Context()))
		},
	}
	f.register(cmd)
	return cmd
}

// reportFields prints per-field messages for a rejected draft
func (a *app) reportFields(err error) error {
	if err == nil {
		return nil
	}
	fields := a.store.FieldErrors()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.errOut, "  %s: %s\n", k, fields[k])
	}
	return err
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirm inventory.Confirmer = a
			if yes {
				confirm = inventory.ConfirmFunc(func(string) bool { return true })
			}
			err := a.store.Remove(cmd.Context(), args[0], confirm)
			if errors.Is(err, inventory.ErrRemoveDeclined) {
				fmt.Fprintln(a.errOut, "Cancelled")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show inventory counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Refresh(cmd.Context()); err != nil {
				return err
			}
			stats := summary.Compute(a.store.Assets(), a.now())
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			latest := "N/A"
			if stats.Latest != nil {
				latest = stats.Latest.Name
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total Assets:\t%d\n", stats.Total)
			fmt.Fprintf(w, "Added This Month:\t%d\n", stats.ThisMonth)
			fmt.Fprintf(w, "Added This Week:\t%d\n", stats.ThisWeek)
			fmt.Fprintf(w, "Latest Asset:\t%s\n", latest)
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format   string
		output   string
		search   string
		category string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered asset list to xlsx, html or pdf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := export.ParseKind(format)
			if err != nil {
				return err
			}
			if err := a.store.Refresh(cmd.Context()); err != nil {
				return err
			}
			assets := filter.Apply(a.store.Assets(), search, models.Category(category))
			now := a.now()

			if output == "-" {
				return export.Write(a.out, kind, assets, now)
			}
			if output == "" {
				output = export.FileName(kind, now)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export.Write(f, kind, assets, now); err != nil {
				f.Close()
				return fmt.Errorf("export %s: %w", kind, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.errOut, "Exported %d assets to %s\n", len(assets), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.KindExcel), "xlsx, html or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default assets_<date>.<format>)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or serial number")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var (
		sheet  string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Add every asset from an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := importer.ReadDrafts(f, importer.Options{Sheet: sheet})
			for _, s := range result.Samples {
				fmt.Fprintf(a.errOut, "  row %d: %s\n", s.Row, s.Message)
			}
			if err != nil {
				return err
			}

			inserted, failed := 0, 0
			for _, d := range result.Drafts {
				if dryRun {
					inserted++
					continue
				}
				if err := a.store.SubmitDraft(cmd.Context(), d.Asset); err != nil {
					if cmd.Context().Err() != nil {
						return err
					}
					failed++
					fmt.Fprintf(a.errOut, "  row %d: %s\n", d.Row, assetclient.MessageOf(err))
					continue
				}
				inserted++
			}

			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			fmt.Fprintf(a.out, "%s %d assets from sheet %q (%d skipped, %d invalid, %d rejected)\n",
				verb, inserted, result.Sheet, result.Skipped, result.Errors, failed)
			if failed > 0 {
				return fmt.Errorf("%d assets were rejected by the store", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name (default first sheet)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the workbook without adding anything")
	return cmd
}

// printTable writes assets as a numbered table starting after offset
func printTable(out io.Writer, assets []models.Asset, offset int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSERIAL NO\tCATEGORY\tASSIGN DATE\tID")
	for i, asset := range assets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			offset+i+1, asset.Name, asset.SerialNo, asset.CategoryOrDefault(), asset.AssignDate, asset.ID)
	}
	return w.Flush()
}
