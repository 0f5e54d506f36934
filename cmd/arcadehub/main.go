package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	catalogcmd "github.com/cuihairu/arcadehub/internal/cli/catalogcmd"
	common "github.com/cuihairu/arcadehub/internal/cli/common"
	servercmd "github.com/cuihairu/arcadehub/internal/cli/servercmd"
)

func main() {
	root := &cobra.Command{Use: "arcadehub", Short: "ArcadeHub games catalog", SilenceUsage: true}

	root.AddCommand(servercmd.New())
	root.AddCommand(catalogcmd.New())

	// completion
	comp := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
	root.AddCommand(comp)

	// config test
	var cfgFile, profile string
	var includes []string
	cfgTest := &cobra.Command{
		Use:   "config-test",
		Short: "Validate and print the effective serve config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				return fmt.Errorf("--config required")
			}
			v, err := common.LoadServeViper(cfgFile, includes, profile)
			if err != nil {
				return err
			}
			cfg := common.ReadServeConfig(v)
			if err := common.ValidateServeConfig(cfg, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config OK: http_addr=%s catalog=%s analytics=%s telemetry=%v\n",
				cfg.HTTPAddr, cfg.Catalog.Location, cfg.Analytics.Driver, cfg.Telemetry.Enabled)
			return nil
		},
	}
	cfgTest.Flags().StringVar(&cfgFile, "config", "", "config file path")
	cfgTest.Flags().StringSliceVar(&includes, "include", nil, "extra config files merged in order")
	cfgTest.Flags().StringVar(&profile, "profile", "", "optional profiles.<name> overlay")
	root.AddCommand(cfgTest)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
