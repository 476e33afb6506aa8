package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gihan9a/contentlog/internal/docfile"
	"gihan9a/contentlog/internal/store"
)

func (a *app) newCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Put a document under version control",
		Long:  "Record the create event of a document that has no history yet and write it back in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCreate(cmd, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Document to create (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) runCreate(cmd *cobra.Command, file string) error {
	content, err := docfile.Read(file)
	if err != nil {
		return err
	}

	next, event, err := store.New(nil).Create(file, content, a.cfg.History.User)
	if err != nil {
		return fmt.Errorf("creating %s: %w", file, err)
	}

	if _, err := docfile.Write(file, next, a.cfg.History.Indent); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", event.Type, event.ID)
	return nil
}
