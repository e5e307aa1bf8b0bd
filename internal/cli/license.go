package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pombredanne/pycense/internal/editor"
	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/models"
	"github.com/pombredanne/pycense/internal/storage"
	"github.com/pombredanne/pycense/internal/substitute"
	"github.com/pombredanne/pycense/internal/ui"
)

// newLicenseTemplate seeds the editor for "license add".
const newLicenseTemplate = `---
title: ""
description: ""
placeholders: {}
---
Copyright (c) <year> <owner>

`

func (a *app) newLicenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "license",
		Aliases: []string{"licenses"},
		Short:   "Manage the license library",
	}
	cmd.AddCommand(
		a.newLicenseListCmd(),
		a.newLicenseShowCmd(),
		a.newLicenseAddCmd(),
		a.newLicenseEditCmd(),
		a.newLicenseRmCmd(),
		a.newLicenseMvCmd(),
	)
	return cmd
}

type licenseSummary struct {
	Name         string            `json:"name"`
	Title        string            `json:"title,omitempty"`
	Description  string            `json:"description,omitempty"`
	Placeholders []string          `json:"placeholders"`
	Defaults     map[string]string `json:"defaults,omitempty"`
}

func summarize(license *models.License) licenseSummary {
	names := substitute.Placeholders(license.Content)
	if names == nil {
		names = []string{}
	}
	return licenseSummary{
		Name:         license.ID,
		Title:        license.Name,
		Description:  license.Summary,
		Placeholders: names,
		Defaults:     license.Placeholders,
	}
}

func (a *app) newLicenseListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored licenses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			licenses, err := a.svc.Storage().ListLicenses()
			if err != nil {
				return err
			}
			return writeLicenses(cmd.OutOrStdout(), licenses, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or ids")
	return cmd
}

func writeLicenses(w io.Writer, licenses []*models.License, format string) error {
	switch format {
	case "ids":
		for _, l := range licenses {
			fmt.Fprintln(w, l.ID)
		}
	case "json":
		out := make([]licenseSummary, 0, len(licenses))
		for _, l := range licenses {
			out = append(out, summarize(l))
		}
		return writeJSON(w, out)
	case "table":
		if len(licenses) == 0 {
			fmt.Fprintln(w, ui.CreateHelp("No licenses. Run 'pycense init' to add the bundled ones."))
			return nil
		}
		rows := make([][]string, 0, len(licenses))
		for _, l := range licenses {
			rows = append(rows, []string{l.ID, l.Name, strings.Join(substitute.Placeholders(l.Content), ", ")})
		}
		fmt.Fprintln(w, ui.Table([]string{"NAME", "TITLE", "PLACEHOLDERS"}, rows))
	default:
		return apperrors.InvalidInputError(fmt.Sprintf("unknown format '%s'", format)).
			WithDetails("valid formats: table, json, ids")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to encode JSON")
	}
	return nil
}

func (a *app) newLicenseShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a stored license",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			license, err := a.svc.Storage().LoadLicense(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if raw {
				data, err := storage.EncodeLicense(license)
				if err != nil {
					return apperrors.InternalError(err.Error())
				}
				_, err = out.Write(data)
				return err
			}

			title := license.ID
			if license.Name != "" {
				title += " (" + license.Name + ")"
			}
			fmt.Fprintln(out, ui.CreateMainHeader(title))
			if license.Summary != "" {
				fmt.Fprintln(out, ui.CreateHelp(license.Summary))
			}
			if names := substitute.Placeholders(license.Content); len(names) > 0 {
				fmt.Fprintln(out, ui.StyleMetadata.Render("placeholders: "+strings.Join(names, ", ")))
			}
			for _, name := range license.PlaceholderNames() {
				fmt.Fprintln(out, ui.StyleMetadata.Render(fmt.Sprintf("  %s = %s", name, license.Placeholders[name])))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, license.Content)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored file, frontmatter included")
	return cmd
}

func (a *app) newLicenseAddCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a license from a file, stdin or the editor",
		Long: `Add a license to the library. The text may start with a YAML frontmatter
block holding title, description and placeholder defaults. Without --file
the editor opens on a template.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			var (
				content []byte
				err     error
			)
			switch file {
			case "":
				var text string
				ed := editor.New(editor.Resolve(a.svc.Config().Editor))
				ed.Stdin, ed.Stdout, ed.Stderr = cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()
				text, err = ed.Edit(cmd.Context(), newLicenseTemplate, name+"-*.txt")
				content = []byte(text)
			case "-":
				content, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					err = apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "failed to read stdin")
				}
			default:
				content, err = os.ReadFile(file)
				if os.IsNotExist(err) {
					err = apperrors.FileNotFoundError(file, err)
				} else if err != nil {
					err = apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "failed to read "+file)
				}
			}
			if err != nil {
				return err
			}

			license, err := a.svc.AddLicense(name, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added license %s\n", license.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `read the license from a file ("-" for stdin)`)
	return cmd
}

func (a *app) newLicenseEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit NAME",
		Short: "Edit a stored license in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := editor.New(editor.Resolve(a.svc.Config().Editor))
			ed.Stdin, ed.Stdout, ed.Stderr = cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()

			license, err := a.svc.EditLicense(cmd.Context(), args[0], ed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved license %s\n", license.ID)
			return nil
		},
	}
}

func (a *app) newLicenseRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME...",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove stored licenses",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := a.svc.Storage().DeleteLicense(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed license %s\n", name)
			}
			return nil
		},
	}
}

func (a *app) newLicenseMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mv OLD NEW",
		Aliases: []string{"rename"},
		Short:   "Rename a stored license",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Storage().RenameLicense(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed license %s to %s\n", args[0], args[1])
			return nil
		},
	}
}
