package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kycdesk/internal/entity/fields"
	"kycdesk/internal/entity/models"
	dErrors "kycdesk/pkg/domain-errors"
)

func newRootCommand(a *app) *cobra.Command {
	loadErr := a.loadConfig()

	root := &cobra.Command{
		Use:           "kycctl",
		Short:         "Inspect and edit the KYC entity desk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadErr
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().AddFlagSet(storeFlags(&a.cfg))

	root.AddCommand(
		listCommand(a),
		addCommand(a),
		selectCommand(a),
		setCommand(a),
		showCommand(a),
		fieldsCommand(a),
		profileCommand(a),
		exportCommand(a),
		importCommand(a),
	)
	return root
}

func listCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entities; the selected one is marked with *",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, s *session) error {
			state := s.directory.State(s.ctx)
			renderList(cmd.OutOrStdout(), state.Entities, state.SelectedID)
			return nil
		}),
	}
}

func addCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a blank entity and select it",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, s *session) error {
			e := s.directory.Add(s.ctx)
			fmt.Fprintln(cmd.OutOrStdout(), e.ID)
			return nil
		}),
	}
}

func selectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Select an entity",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			if !s.directory.Select(s.ctx, args[0]) {
				return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("entity %s not found", args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "selected %s\n", args[0])
			return nil
		}),
	}
}

func setCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Set one field, e.g. kycctl set ent_1 banking.swift ABCDEFGH",
		Long:  "Set one field of an entity. Run kycctl fields for the field keys. An empty value clears the field.",
		Args:  cobra.ExactArgs(3),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			e, err := s.directory.UpdateField(s.ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			f := fields.MustLookup(args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %q\n", e.ID, f.Label, f.Value(e))
			return nil
		}),
	}
}

func showCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print an entity as JSON (default: the selected one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			e, err := target(s, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), e)
		}),
	}
}

func fieldsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List editable field keys by tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderFields(cmd.OutOrStdout())
			return nil
		},
	}
}

func profileCommand(a *app) *cobra.Command {
	var (
		section string
		copyOut bool
	)
	cmd := &cobra.Command{
		Use:   "profile [id]",
		Short: "Render the read-only profile (default: the selected entity)",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			e, err := target(s, args)
			if err != nil {
				return err
			}
			text, err := s.directory.ExportText(s.ctx, e.ID, section)
			if err != nil {
				return err
			}
			if copyOut {
				if a.clip.Copy(text) {
					fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "no clipboard available")
				}
			}
			sections, err := s.directory.Profile(s.ctx, e.ID)
			if err != nil {
				return err
			}
			renderProfile(cmd.OutOrStdout(), e, sections, section)
			return nil
		}),
	}
	cmd.Flags().StringVar(&section, "section", "", "only this section, e.g. \"Tax Info\"")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy the plain-text export to the clipboard")
	return cmd
}

func exportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the whole collection as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, s *session) error {
			return writeJSON(cmd.OutOrStdout(), s.directory.List(s.ctx))
		}),
	}
}

func importCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the collection with a JSON list",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			var r io.Reader = a.stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var entities []models.Entity
			if err := json.NewDecoder(r).Decode(&entities); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			if entities == nil {
				return dErrors.New(dErrors.CodeBadRequest, "expected a JSON list of entities")
			}
			if err := s.directory.Replace(s.ctx, entities); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entities\n", len(entities))
			return nil
		}),
	}
}

// target resolves the optional id argument, defaulting to the selection.
func target(s *session, args []string) (models.Entity, error) {
	if len(args) == 1 {
		e, ok := s.directory.Get(s.ctx, args[0])
		if !ok {
			return models.Entity{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("entity %s not found", args[0]))
		}
		return e, nil
	}
	e, ok := s.directory.Selected(s.ctx)
	if !ok {
		return models.Entity{}, dErrors.New(dErrors.CodeNotFound, "no entity selected")
	}
	return e, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
