package main

import (
	"log"

	"github.com/spf13/cobra"

	"gihan9a/contentlog/internal/store"
	"gihan9a/contentlog/internal/watch"
)

func (a *app) newWatchCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Record edits of documents in a directory as they happen",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" {
				a.cfg.Watch.RootDir = dir
			}
			return a.runWatch(cmd)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory containing documents (overrides config)")

	return cmd
}

func (a *app) runWatch(cmd *cobra.Command) error {
	recorder, err := watch.NewRecorder(a.cfg, store.New(nil))
	if err != nil {
		return err
	}
	defer recorder.Close()

	if err := recorder.SetupWatchers(); err != nil {
		return err
	}

	log.Printf("Watching %s documents in %s", a.cfg.Watch.Extension, a.cfg.Watch.RootDir)
	return recorder.Run(cmd.Context())
}
