package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pombredanne/pycense/internal/clipboard"
	"github.com/pombredanne/pycense/internal/models"
	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/service"
	"github.com/pombredanne/pycense/internal/splice"
	"github.com/pombredanne/pycense/internal/ui"
)

// renderFlags are shared by render, apply and pick.
type renderFlags struct {
	license    string
	text       string
	profile    string
	settings   []string
	vars       []string
	tabWidth   int
	paragraphs bool
}

func (f *renderFlags) register(cmd *cobra.Command, withSource bool) {
	flags := cmd.Flags()
	if withSource {
		flags.StringVarP(&f.license, "license", "l", "", "license to render (default: config default_license)")
		flags.StringVar(&f.text, "text", "", `text to render instead of a license; "-" reads stdin`)
	}
	flags.StringVarP(&f.profile, "profile", "p", "", "box profile (default: config default_profile)")
	flags.StringArrayVarP(&f.settings, "set", "s", nil, "override a box setting, name=value (repeatable)")
	flags.StringArrayVarP(&f.vars, "var", "v", nil, "fill a placeholder, name=value (repeatable)")
	flags.IntVar(&f.tabWidth, "tab-width", 0, "tab stop distance (default: config tab_width or 8)")
	flags.BoolVar(&f.paragraphs, "paragraphs", false, "keep blank-line separated paragraphs apart")
}

// request builds a render request. A positional license name wins over
// --license.
func (f *renderFlags) request(cmd *cobra.Command, args []string) (service.RenderRequest, error) {
	req := service.RenderRequest{
		License:    f.license,
		Text:       f.text,
		Profile:    f.profile,
		Settings:   f.settings,
		Vars:       f.vars,
		TabWidth:   f.tabWidth,
		Paragraphs: f.paragraphs,
	}
	if len(args) > 0 {
		req.License = args[0]
	}
	if f.tabWidth < 0 {
		return req, apperrors.InvalidInputError("--tab-width must not be negative")
	}

	if req.Text == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return req, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "failed to read stdin")
		}
		req.Text = string(data)
		if strings.TrimSpace(req.Text) == "" {
			return req, apperrors.ValidationError("stdin was empty")
		}
	}
	return req, nil
}

func (a *app) newRenderCmd() *cobra.Command {
	var (
		flags   renderFlags
		copyOut bool
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "render [LICENSE]",
		Short: "Render a license or text as a comment box",
		Example: `  pycense render mit --var owner="Jane Doe"
  pycense render -l apache-2.0 -p shell --set width=72
  echo "Generated file, do not edit" | pycense render --text -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd, args)
			if err != nil {
				return err
			}
			block, err := a.svc.Render(req)
			if err != nil {
				return err
			}

			if copyOut {
				msg, err := clipboard.CopyWithFallback(block)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), ui.CreateStatus(msg, "success"))
			}

			if preview {
				title := req.License
				if req.Text != "" {
					title = ""
				}
				out, err := ui.Preview(title, block)
				if err != nil {
					return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "preview failed")
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), block)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().BoolVar(&copyOut, "copy", false, "also copy the box to the clipboard")
	cmd.Flags().BoolVar(&preview, "preview", false, "show the box in a styled markdown preview")
	return cmd
}

func (a *app) newApplyCmd() *cobra.Command {
	var (
		flags   renderFlags
		replace bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "apply FILE...",
		Short: "Insert the rendered box at the top of files",
		Long: `Insert the rendered box at the top of each file. A leading #! line stays
first. With --replace, a box previously inserted with the same first and
last lines is removed before the new one is written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd, nil)
			if err != nil {
				return err
			}

			results, err := a.svc.Apply(cmd.Context(), req, args, splice.Options{Replace: replace, DryRun: dryRun})
			out := cmd.OutOrStdout()
			for _, res := range results {
				switch {
				case dryRun:
					fmt.Fprintf(out, "==> %s <==\n%s", res.Path, res.Content)
				case res.Changed:
					fmt.Fprintf(out, "updated %s\n", res.Path)
				default:
					fmt.Fprintf(out, "unchanged %s\n", res.Path)
				}
			}
			return err
		},
	}

	flags.register(cmd, true)
	cmd.Flags().BoolVar(&replace, "replace", false, "replace a box inserted earlier")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the new contents instead of writing")
	return cmd
}

func (a *app) newPickCmd() *cobra.Command {
	var (
		flags   renderFlags
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a license interactively and print its box",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			licenses, err := a.svc.Storage().ListLicenses()
			if err != nil {
				return err
			}
			if len(licenses) == 0 {
				return apperrors.NotFoundError("licenses").WithDetails("run 'pycense init' to seed the library")
			}

			base, err := flags.request(cmd, nil)
			if err != nil {
				return err
			}
			render := func(license models.License) (string, error) {
				req := base
				req.License = license.ID
				return a.svc.Render(req)
			}

			choice, err := ui.RunPicker(licenses, render)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "picker failed")
			}
			if choice == nil {
				return nil
			}

			block, err := render(*choice)
			if err != nil {
				return err
			}
			if copyOut {
				if _, err := clipboard.CopyWithFallback(block); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), block)
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&copyOut, "copy", false, "also copy the box to the clipboard")
	return cmd
}
