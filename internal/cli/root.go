package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophjournal/internal/backup"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/config"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/journal"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// newUploader is a test seam for backup.New.
var newUploader = backup.New

// rootOptions carries what PersistentPreRunE resolved for subcommands.
type rootOptions struct {
	flags *config.Flags
	cfg   *config.Config
	log   logging.Logger
}

// NewRootCommand builds the gophjournal command tree. Without a
// subcommand it behaves like "open".
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "gophjournal [journal-file]",
		Short:        "An encrypted, date-indexed personal journal",
		Long:         "gophjournal keeps one encrypted text entry per calendar day in a single file.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.flags.Load()
			if err != nil {
				return err
			}
			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.log = logging.New(cmd.ErrOrStderr(), level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, opts, args)
		},
	}

	opts.flags = config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newOpenCommand(opts))
	cmd.AddCommand(newCreateCommand(opts))

	return cmd
}

func newOpenCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open [journal-file]",
		Short: "Open an existing journal",
		Example: `
gophjournal open ~/diary.txt
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, opts, args)
		},
	}
}

func newCreateCommand(opts *rootOptions) *cobra.Command {
	var dir, name string

	cmd := &cobra.Command{
		Use:   "create [journal-file]",
		Short: "Create a new journal",
		Example: `
gophjournal create ~/diary.txt
gophjournal create --dir ~/journals --name 2024.txt
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			sessionOpts, err := opts.sessionOptions(ctx)
			if err != nil {
				return err
			}

			pw, err := GetNewPassword(out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			var s *journal.Session
			if name != "" {
				s, err = journal.CreateIn(ctx, dir, name, pw, sessionOpts...)
			} else {
				s, err = journal.Create(ctx, opts.journalPath(args), pw, sessionOpts...)
			}
			if err != nil {
				return err
			}
			return runApp(ctx, cmd, opts, s)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory for the new journal (with --name)")
	cmd.Flags().StringVar(&name, "name", "", "file name for the new journal inside --dir")
	return cmd
}

func (o *rootOptions) journalPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return o.cfg.JournalPath
}

func (o *rootOptions) sessionOptions(ctx context.Context) ([]journal.Option, error) {
	sessionOpts := []journal.Option{
		journal.WithCipher(cryptox.New(o.cfg.KDFParams())),
		journal.WithLogger(o.log),
	}

	if o.cfg.BackupEnabled() {
		up, err := newUploader(ctx, o.cfg.Backup(), o.log)
		if err != nil {
			return nil, fmt.Errorf("backup: %w", err)
		}
		sessionOpts = append(sessionOpts, journal.WithAfterSave(up.AfterSave))
	}
	return sessionOpts, nil
}

func runOpen(cmd *cobra.Command, opts *rootOptions, args []string) error {
	ctx := cmd.Context()
	path := opts.journalPath(args)

	if ok, err := filex.Exists(path); err == nil && !ok {
		return fmt.Errorf("%w: %s (use 'gophjournal create' to start one)", common.ErrNotFound, path)
	}

	sessionOpts, err := opts.sessionOptions(ctx)
	if err != nil {
		return err
	}

	pw, err := getPassword(cmd.OutOrStdout(), "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	s, err := journal.Open(ctx, path, pw, sessionOpts...)
	if err != nil {
		return err
	}
	return runApp(ctx, cmd, opts, s)
}

func runApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions, s *journal.Session) error {
	defer s.Close()

	app, err := NewApp(s, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), opts.log)
	if err != nil {
		return err
	}
	app.Run(ctx)
	return nil
}

// Execute runs the root command with ctx and writes a failure to errOut.
func Execute(ctx context.Context, args []string, errOut io.Writer) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}
