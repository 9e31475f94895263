package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/lead-enricher/internal/summarize"
)

var tonesCmd = &cobra.Command{
	Use:   "tones",
	Short: "List the available tones and industry templates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := summarize.LoadCatalog(cfg.Summarize.TemplatesFile)
		if err != nil {
			return err
		}
		return printTones(cmd.OutOrStdout(), catalog, cfg.Summarize.Tone)
	},
}

func printTones(out io.Writer, catalog *summarize.Catalog, current string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tKIND\tLABEL\t")
	_, _ = fmt.Fprintln(w, "----\t----\t-----\t")
	for _, d := range catalog.List() {
		marker := ""
		if d.Name == current {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Kind, d.Label, marker)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(tonesCmd)
}
