package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pricepilot/model"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the business profile sent with every question",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Profile(cmd.Context())
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No business profile set. Use 'pricepilot profile set'.")
			return nil
		}

		// Only what the assistant will actually receive.
		rc := model.BuildContext(p, nil)
		out := cmd.OutOrStdout()
		for _, field := range []struct{ label, value string }{
			{"Name", rc.BusinessName},
			{"Location", rc.Location},
			{"Currency", rc.Currency},
		} {
			if field.value != "" {
				fmt.Fprintf(out, "%-9s %s\n", field.label+":", field.value)
			}
		}
		return nil
	},
}

var (
	profileName     string
	profileCity     string
	profileCountry  string
	profileCurrency string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace the business profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileName == "" {
			return fmt.Errorf("--name is required")
		}

		_, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		err = store.SaveProfile(cmd.Context(), model.BusinessProfile{
			Name:     profileName,
			City:     profileCity,
			Country:  profileCountry,
			Currency: profileCurrency,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved profile for %s\n", profileName)
		return nil
	},
}

var profileClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the business profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.ClearProfile(cmd.Context())
	},
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the booking datasets known to the assistant",
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		datasets, err := store.Datasets(cmd.Context())
		if err != nil {
			return err
		}
		if len(datasets) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No datasets registered.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tROWS\tUPLOADED")
		for _, ds := range datasets {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", ds.ID, ds.Name, ds.RowCount, ds.UploadedAt.Format("2006-01-02 15:04"))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		rc := model.BuildContext(nil, datasets)
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal bookings: %d\n", rc.CurrentData.TotalBookings)
		return nil
	},
}

var datasetAddCmd = &cobra.Command{
	Use:   "add <name> <rows>",
	Short: "Register an uploaded dataset and its row count",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid row count %q: %w", args[1], err)
		}

		_, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		ds, err := store.AddDataset(cmd.Context(), model.Dataset{Name: args[0], RowCount: rows})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added dataset %s (%s)\n", ds.Name, ds.ID)
		return nil
	},
}

var datasetRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.RemoveDataset(cmd.Context(), args[0])
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "business name")
	profileSetCmd.Flags().StringVar(&profileCity, "city", "", "city")
	profileSetCmd.Flags().StringVar(&profileCountry, "country", "", "country")
	profileSetCmd.Flags().StringVar(&profileCurrency, "currency", "", "ISO currency code, e.g. EUR")

	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileClearCmd)

	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetAddCmd)
	datasetCmd.AddCommand(datasetRemoveCmd)
}
