package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/feiaaa1/mindstream/internal/catalog"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
)

func providersCmd() *cobra.Command {
	var (
		capability string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the AI providers in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := catalog.Default()
			if err != nil {
				return err
			}

			providers := registry.ListProviders()
			if capability != "" {
				providers = registry.ListByCapability(entity.Capability(capability))
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), providers)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFREE\tSPEECH\tTEXT\tKEY\tMODELS")
			for _, p := range providers {
				fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%t\t%t\t%d\n",
					p.ID, p.Name, p.IsFree, p.SupportsSpeech, p.SupportsText, p.APIKeyRequired, len(p.Models))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&capability, "capability", "c", "", "filter by capability (speech, text, free)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}
