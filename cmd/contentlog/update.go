package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gihan9a/contentlog/internal/docfile"
	"gihan9a/contentlog/internal/store"
)

type updateFlags struct {
	file   string
	from   string
	expect string
}

func (a *app) newUpdateCmd() *cobra.Command {
	var flags updateFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Record the changes between a document and its new version",
		Long: "Compare the fields of a versioned document with a new version, record the\n" +
			"difference as an update event and write the result back in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUpdate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Versioned document (required)")
	cmd.Flags().StringVar(&flags.from, "from", "", "Document holding the new version (required)")
	cmd.Flags().StringVar(&flags.expect, "expect", "", "Fail unless the last recorded event has this id")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func (a *app) runUpdate(cmd *cobra.Command, flags updateFlags) error {
	current, err := docfile.Read(flags.file)
	if err != nil {
		return err
	}
	updated, err := docfile.Read(flags.from)
	if err != nil {
		return err
	}

	st := store.New(nil)
	if err := st.Put(flags.file, current); err != nil {
		return err
	}

	next, event, err := st.UpdateIf(flags.file, flags.expect, updated, a.cfg.History.User)
	if err != nil {
		return fmt.Errorf("updating %s: %w", flags.file, err)
	}
	if event == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no changes")
		return nil
	}

	if _, err := docfile.Write(flags.file, next, a.cfg.History.Indent); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", event.Type, event.ID)
	return nil
}
