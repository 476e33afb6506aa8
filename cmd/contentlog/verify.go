package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gihan9a/contentlog/internal/docfile"
	"gihan9a/contentlog/pkg/history"
)

func (a *app) newVerifyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the integrity of a document's history",
		Long: "Validate every recorded event, check its fingerprint, and confirm the\n" +
			"document's fields match the state its history replays to.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Versioned document (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runVerify(cmd *cobra.Command, file string) error {
	doc, err := docfile.Read(file)
	if err != nil {
		return err
	}
	if err := history.Verify(doc); err != nil {
		return fmt.Errorf("verifying %s: %w", file, err)
	}

	events, err := doc.History()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d events, head %s\n", len(events), events[len(events)-1].ID)
	return nil
}
