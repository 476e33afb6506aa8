package main

import (
	"github.com/spf13/cobra"

	"gihan9a/contentlog/internal/docfile"
	"gihan9a/contentlog/pkg/history"
)

func (a *app) newReplayCmd() *cobra.Command {
	var file, id string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Print a document as it was at a given event",
		Long:  "Replay the history of a document up to an event and print the resulting fields.\nWithout --id the whole history is replayed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReplay(cmd, file, id)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Versioned document (required)")
	cmd.Flags().StringVar(&id, "id", "", "Event id to stop at")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) runReplay(cmd *cobra.Command, file, id string) error {
	doc, err := docfile.Read(file)
	if err != nil {
		return err
	}
	events, err := doc.History()
	if err != nil {
		return err
	}

	var snapshot history.Content
	if id == "" {
		snapshot, err = history.Head(events)
	} else {
		snapshot, err = history.Replay(events, id)
	}
	if err != nil {
		return err
	}

	data, err := docfile.Encode(snapshot, a.cfg.History.Indent)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
