package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pombredanne/pycense/internal/box"
	"github.com/pombredanne/pycense/internal/ui"
)

func (a *app) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Manage named box styles",
	}
	cmd.AddCommand(
		a.newProfileListCmd(),
		a.newProfileShowCmd(),
		a.newProfileSetCmd(),
		a.newProfileUnsetCmd(),
		a.newProfileRmCmd(),
		a.newProfileMvCmd(),
		a.newProfileImportCmd(),
	)
	return cmd
}

// formatValue shows strings quoted so surrounding spaces stay visible.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(v)
}

func settingRows(settings map[string]any) [][]string {
	rows := make([][]string, 0, len(settings))
	for _, s := range box.AllSettings() {
		if v, ok := settings[s.Name]; ok {
			rows = append(rows, []string{s.Name, formatValue(v)})
		}
	}
	return rows
}

func (a *app) newProfileListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := a.svc.Storage().ListProfiles()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch format {
			case "ids":
				for _, p := range profiles {
					fmt.Fprintln(out, p.Name)
				}
				return nil
			case "json":
				type entry struct {
					Name        string         `json:"name"`
					Description string         `json:"description,omitempty"`
					Settings    map[string]any `json:"settings"`
				}
				entries := make([]entry, 0, len(profiles))
				for _, p := range profiles {
					entries = append(entries, entry{p.Name, p.Description, p.Settings})
				}
				return writeJSON(out, entries)
			}

			if len(profiles) == 0 {
				fmt.Fprintln(out, ui.CreateHelp("No profiles. Create one with 'pycense profile set NAME key=value...'."))
				return nil
			}
			defaultProfile := a.svc.Config().DefaultProfile
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				name := p.Name
				if name == defaultProfile {
					name += " *"
				}
				rows = append(rows, []string{name, p.Description, strconv.Itoa(len(p.Settings))})
			}
			fmt.Fprintln(out, ui.Table([]string{"NAME", "DESCRIPTION", "SETTINGS"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or ids")
	return cmd
}

func (a *app) newProfileShowCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show the settings of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.svc.Storage().LoadProfile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.CreateMainHeader(profile.Name))
			if profile.Description != "" {
				fmt.Fprintln(out, ui.CreateHelp(profile.Description))
			}

			settings := profile.Settings
			if full {
				spec, err := a.svc.ProfileSpec(profile.Name)
				if err != nil {
					return err
				}
				settings = box.Settings(spec)
			}
			if len(settings) == 0 {
				fmt.Fprintln(out, ui.CreateHelp("(no settings)"))
				return nil
			}
			fmt.Fprintln(out, ui.Table([]string{"SETTING", "VALUE"}, settingRows(settings)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "spec", false, "show every setting after applying the profile to the defaults")
	return cmd
}

func (a *app) newProfileSetCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "set NAME SETTING=VALUE...",
		Short: "Create a profile or change its settings",
		Example: `  pycense profile set shell tb='#' tf='#' lw='# ' rw=' #' bb='#' bf='#' w=72
  pycense profile set c width=78`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.svc.SetProfile(args[0], args[1:])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("description") {
				profile.Description = description
				if err := a.svc.Storage().SaveProfile(profile); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", profile.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "profile description")
	return cmd
}

func (a *app) newProfileUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset NAME SETTING...",
		Short: "Remove settings from a profile",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.svc.UnsetProfile(args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", profile.Name)
			return nil
		},
	}
}

func (a *app) newProfileRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME...",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove profiles",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := a.svc.Storage().DeleteProfile(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %s\n", name)
			}
			return nil
		},
	}
}

func (a *app) newProfileMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mv OLD NEW",
		Aliases: []string{"rename"},
		Short:   "Rename a profile",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Storage().RenameProfile(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed profile %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func (a *app) newProfileImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Save a YAML or JSON settings file as a profile",
		Long: `Import a settings file as a profile. YAML files and JSON files (comments
and trailing commas allowed) may hold the settings at the top level or
under a "settings" key next to a "description".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.svc.ImportProfile(args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported profile %s (%d settings)\n", profile.Name, len(profile.Settings))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "profile name (default: file base name)")
	return cmd
}

