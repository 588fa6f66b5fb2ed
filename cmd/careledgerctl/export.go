package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("org", "", "organization id (required)")
	exportCmd.Flags().String("client", "", "only this client's invoices")
	exportCmd.Flags().Bool("locked", false, "only locked invoices")
	exportCmd.Flags().StringP("out", "o", "exports", "output directory")

	_ = exportCmd.MarkFlagRequired("org")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write invoice ledgers as CSV files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		orgFlag, _ := cmd.Flags().GetString("org")
		clientFlag, _ := cmd.Flags().GetString("client")
		lockedOnly, _ := cmd.Flags().GetBool("locked")
		out, _ := cmd.Flags().GetString("out")

		orgID, err := uuid.Parse(orgFlag)
		if err != nil {
			return fmt.Errorf("invalid --org: %w", err)
		}

		filter := invoice.ListFilter{OrganizationID: orgID}

		if clientFlag != "" {
			clientID, err := uuid.Parse(clientFlag)
			if err != nil {
				return fmt.Errorf("invalid --client: %w", err)
			}

			filter.ClientID = &clientID
		}

		if lockedOnly {
			filter.Locked = new(true)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.Exports.Export(cmd.Context(), filter, out)
		if err != nil {
			return err
		}

		for _, item := range items {
			fmt.Fprintln(cmd.OutOrStdout(), item.FilePath)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "exported %d invoice(s)\n", len(items))

		return nil
	},
}
