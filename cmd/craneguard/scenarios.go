package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"craneguard/internal/config"
	"craneguard/internal/scenario"
)

var (
	listScenariosFile string
	validateConfig    string
	validateSchema    string
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List scenario presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := scenario.NewCatalog()
		if listScenariosFile != "" {
			if err := catalog.LoadFile(listScenariosFile); err != nil {
				return err
			}
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCRANES\tDESCRIPTION")
		for _, s := range catalog.List() {
			sc, _ := catalog.Get(s.ID)
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Name, len(sc.Cranes), s.Description)
		}
		return tw.Flush()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a site configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(validateConfig, validateSchema)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d cranes)\n", validateConfig, len(cfg.Cranes))
		return nil
	},
}

func init() {
	scenariosCmd.Flags().StringVar(&listScenariosFile, "scenarios-file", "", "YAML file with additional scenarios")
	validateCmd.Flags().StringVar(&validateConfig, "config", "config/site.yaml", "Path to site configuration YAML")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "schemas/site.cue", "Path to CUE schema file")
}
