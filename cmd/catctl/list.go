package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(source func() fetcher) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists cats starting at --offset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			offset := mustInt(fs, "offset")
			cats, err := source().FetchCatsListByBreed(cmd.Context(), offset)
			if err != nil {
				return err
			}
			asJSON := mustBool(fs, "json")
			if len(cats) == 0 && !asJSON {
				notice(cmd.OutOrStdout(), fmt.Sprintf("No cats found at offset %d", offset))
				return nil
			}
			return writeCats(cmd.OutOrStdout(), cats, asJSON)
		},
	}
}
