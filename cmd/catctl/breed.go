package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBreedCmd(source func() fetcher) *cobra.Command {
	return &cobra.Command{
		Use:   "breed NAME",
		Short: "Shows every record for a breed",
		Long: `Fetches the cats matching NAME. The name is sent to the API verbatim,
so quote names with spaces:

catctl breed "Maine Coon"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			cats, err := source().FetchCatsByBreed(cmd.Context(), args[0], mustInt(fs, "offset"))
			if err != nil {
				return err
			}
			asJSON := mustBool(fs, "json")
			if len(cats) == 0 && !asJSON {
				notice(cmd.OutOrStdout(), fmt.Sprintf("No cats found for %q", args[0]))
				return nil
			}
			return writeCats(cmd.OutOrStdout(), cats, asJSON)
		},
	}
}
