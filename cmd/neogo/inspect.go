package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/neogo/model"
)

var (
	inspectPDes    string
	inspectName    string
	inspectVerbose bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Look up a NEO by primary designation or IAU name",
	Example: `  neogo inspect --pdes 433
  neogo inspect --name Halley --verbose`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}

		var neo *model.NearEarthObject
		if inspectPDes != "" {
			neo, err = db.GetNEO(inspectPDes)
		} else {
			neo, err = db.GetNEOByName(inspectName)
		}
		if err != nil {
			return err
		}

		fmt.Println(neo)

		if inspectVerbose {
			for _, ca := range neo.Approaches {
				fmt.Printf("- %v\n", ca)
			}
		}

		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectPDes, "pdes", "", "Primary designation of the NEO")
	inspectCmd.Flags().StringVar(&inspectName, "name", "", "IAU name of the NEO")
	inspectCmd.Flags().BoolVarP(&inspectVerbose, "verbose", "v", false, "Also list the NEO's close approaches")

	inspectCmd.MarkFlagsOneRequired("pdes", "name")
	inspectCmd.MarkFlagsMutuallyExclusive("pdes", "name")

	rootCmd.AddCommand(inspectCmd)
}
