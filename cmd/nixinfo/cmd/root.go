// Package cmd implements the nixinfo commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-nix/nix"
	"github.com/robert-malhotra/go-nix/storage/sqlitestore"
)

type rootOpts struct {
	debug    bool
	hideTime bool
}

var longRootCmdDescription = `nixinfo prints the entity graph of a NIX container: blocks with their
source trees and data arrays, and the metadata section trees.
`

// NewRootCmd builds the nixinfo command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOpts{}
	rootCmd := &cobra.Command{
		Use:           "nixinfo",
		Short:         "Inspect NIX containers",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogger(opts)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "turn on debug mode")
	rootCmd.PersistentFlags().BoolVar(&opts.hideTime, "hide-time", false, "hide the log time")
	rootCmd.AddCommand(NewTreeCmd(opts), NewFindCmd(opts), NewDumpCmd(opts))
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.Errorf("nixinfo: %v", err)
		os.Exit(1)
	}
}

func initLogger(opts *rootOpts) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    !opts.hideTime,
		DisableTimestamp: opts.hideTime,
	})
	logrus.SetOutput(os.Stderr)
	if opts.debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// session is a container opened read-only. Close releases the database
// without writing to it.
type session struct {
	store *sqlitestore.Store
	file  *nix.File
}

func (s *session) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}

// openSession opens an existing container file. Missing files are an error
// so inspection never creates a new database.
func openSession(ctx context.Context, path string, opts *rootOpts) (*session, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	level := slog.LevelWarn
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := nix.NewTextLogger(level)

	store, err := sqlitestore.Open(ctx, path, sqlitestore.WithReadOnly(), sqlitestore.WithLogger(logger.Logger))
	if err != nil {
		return nil, err
	}
	f, err := nix.Open(store.Root(), nix.WithoutInit(), nix.WithLogger(logger))
	if err != nil {
		return nil, errors.Join(err, store.Close(ctx))
	}
	logrus.Debugf("opened %s: format %s, %d blocks, %d sections",
		path, f.Format(), f.BlockCount(), f.SectionCount())
	return &session{store: store, file: f}, nil
}

// withSession opens path, runs fn and closes the container, reporting both
// failures.
func withSession(ctx context.Context, path string, opts *rootOpts, fn func(f *nix.File) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, path, opts)
	if err != nil {
		return err
	}
	err = fn(s.file)
	if cerr := s.Close(ctx); cerr != nil {
		return errors.Join(err, fmt.Errorf("close %s: %w", path, cerr))
	}
	return err
}
