package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pombredanne/pycense/internal/box"
	"github.com/pombredanne/pycense/internal/config"
	"github.com/pombredanne/pycense/internal/ui"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change preferences",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show every configuration key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.svc.Config()
			rows := make([][]string, 0, len(config.Keys))
			for _, key := range config.Keys {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				rows = append(rows, []string{key, value})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Table([]string{"KEY", "VALUE"}, rows))
			fmt.Fprintln(out, ui.CreateHelp(cfg.Path()))
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get KEY",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.svc.Config().Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set KEY [VALUE]",
		Short: "Change a configuration value; no VALUE unsets it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if err := a.svc.SetConfig(args[0], value); err != nil {
				return err
			}
			if value == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], value)
			}
			return nil
		},
	}

	cmd.AddCommand(show, get, set)
	return cmd
}

func (a *app) newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "List the box settings with their aliases and defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := box.Settings(box.DefaultSpec())
			rows := make([][]string, 0, len(defaults))
			for _, s := range box.AllSettings() {
				rows = append(rows, []string{s.Name, s.Alias, s.Kind.String(), formatValue(defaults[s.Name]), s.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Table([]string{"SETTING", "ALIAS", "TYPE", "DEFAULT", "DESCRIPTION"}, rows))
			return nil
		},
	}
}
