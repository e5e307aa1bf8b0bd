// Package cli implements the pycense command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/logging"
	"github.com/pombredanne/pycense/internal/service"
)

var version = "0.1.0"

// app carries state shared by every command of one invocation.
type app struct {
	verbose bool
	dir     string
	logger  *zap.Logger
	svc     *service.Service
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pycense",
		Short: "Render license notices as boxed source comments",
		Long: `pycense frames license text in a comment box sized to your code style.

Licenses live in a library (~/.pycense or $PYCENSE_DIR) and may use
<placeholders> such as <owner> and <year>. Box styles are kept as named
profiles. Rendered boxes can be printed, copied or spliced into files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger

			svc, err := service.New(service.Options{BaseDir: a.dir, Logger: logger})
			if err != nil {
				return err
			}
			a.svc = svc
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "log debug output to stderr")
	root.PersistentFlags().StringVar(&a.dir, "dir", "", "library directory (default $PYCENSE_DIR or ~/.pycense)")

	root.AddCommand(
		a.newInitCmd(),
		a.newRenderCmd(),
		a.newApplyCmd(),
		a.newPickCmd(),
		a.newLicenseCmd(),
		a.newProfileCmd(),
		a.newConfigCmd(),
		a.newSettingsCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args and returns the process
// exit code.
func Execute() int {
	root := NewRootCmd()
	return run(root, os.Stderr)
}

func run(root *cobra.Command, stderr io.Writer) int {
	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}

	if !apperrors.IsAppError(err) {
		// flag and argument errors from cobra
		err = apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, err.Error())
	}

	verbose := false
	if cmd != nil {
		verbose, _ = cmd.Flags().GetBool("verbose")
	}
	logger, _ := logging.New(verbose)
	handler := apperrors.NewCLIErrorHandler(verbose, logger)
	fmt.Fprintln(stderr, handler.HandleError(err))
	if logger != nil {
		_ = logger.Sync()
	}
	return 1
}

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the library and seed the bundled licenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.InitLibrary(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized library in %s\n", a.svc.Storage().GetBaseDir())
			return nil
		},
	}
}
