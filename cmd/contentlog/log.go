package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gihan9a/contentlog/internal/docfile"
)

func (a *app) newLogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List the events recorded for a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Versioned document (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runLog(cmd *cobra.Command, file string) error {
	doc, err := docfile.Read(file)
	if err != nil {
		return err
	}
	events, err := doc.History()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, e := range events {
		user := e.Actor()
		if user == "" {
			user = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Type, user, e.Time().UTC().Format(time.RFC3339))
	}
	return w.Flush()
}
