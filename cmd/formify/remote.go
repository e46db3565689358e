package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formify/pkg/client"
	"github.com/goliatone/go-formify/pkg/editor"
	"github.com/goliatone/go-formify/pkg/fixtures"
	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/render"
	"github.com/goliatone/go-formify/pkg/renderers/tui"
)

func (c *cli) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Publish the draft to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession()
			if err != nil {
				return err
			}
			result := <-s.Save(cmd.Context(), c.client())
			if result.Err != nil {
				return result.Err
			}
			c.log().Info("form saved", zap.String("form_id", result.Created.FormID))
			fmt.Fprintf(c.out, "Form saved: %s\nShare: %s\n", result.Created.FormID, result.Created.SharableLink)
			return nil
		},
	}
}

var _ editor.Saver = (*client.Client)(nil)

func (c *cli) draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Sync the local draft with the server",
	}

	push := &cobra.Command{
		Use:   "push",
		Short: "Upload the local draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := c.draftSnapshot()
			if err != nil {
				return err
			}
			if err := c.client().PutDraft(cmd.Context(), draft); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Draft uploaded")
			return nil
		},
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Replace the local draft with the server copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := c.client().Draft(cmd.Context())
			if err != nil {
				return err
			}
			s, err := editor.RestoreSession(draft, c.sessionOptions()...)
			if err != nil {
				return err
			}
			if err := c.saveSession(s); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Draft from %s written to %s\n", draft.UpdatedAt.Format(time.RFC3339), c.draftPath)
			return nil
		},
	}

	discard := &cobra.Command{
		Use:   "discard",
		Short: "Delete the server copy of the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.client().DeleteDraft(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Draft discarded")
			return nil
		},
	}

	cmd.AddCommand(push, pull, discard)
	return cmd
}

func (c *cli) fillCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fill <form-id>",
		Short: "Answer a published form in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			api := c.client()
			form, err := api.GetForm(ctx, args[0])
			if err != nil {
				return err
			}
			flat, err := model.Flatten(form, model.NewSequenceIDs())
			if err != nil {
				return err
			}

			opts := []tui.Option{tui.WithTheme(tui.Theme{HeaderPrefix: "== ", InfoPrefix: "-- ", ErrorPrefix: "!! "})}
			if c.prompts != nil {
				opts = append(opts, tui.WithPromptDriver(c.prompts))
			}
			renderer, err := tui.New(opts...)
			if err != nil {
				return err
			}
			answers, err := renderer.Fill(ctx, flat, render.RenderOptions{})
			if err != nil {
				return err
			}

			if dryRun {
				return c.printJSON(answers)
			}
			submission, err := api.Submit(ctx, args[0], answers)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Submitted %d answers (%s)\n", len(submission.Answers), submission.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the answers instead of submitting them")
	return cmd
}

func (c *cli) formsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "Inspect forms published on the server",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			forms, err := c.client().ListForms(cmd.Context(), search)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCREATED")
			for _, f := range forms {
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, f.Title, f.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive title filter")

	get := &cobra.Command{
		Use:   "get <form-id>",
		Short: "Print a form as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := c.client().GetForm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(form)
		},
	}

	del := &cobra.Command{
		Use:   "delete <form-id>",
		Short: "Delete a form and its submissions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.client().DeleteForm(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s\n", args[0])
			return nil
		},
	}

	submissions := &cobra.Command{
		Use:   "submissions <form-id>",
		Short: "Print the submissions of a form as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.client().Submissions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(report)
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show form and submission totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.client().Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Forms: %d\nSubmissions: %d\n", stats.TotalForms, stats.TotalSubmissions)
			return nil
		},
	}

	cmd.AddCommand(list, get, del, submissions, stats)
	return cmd
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [dir]",
		Short: "Publish fixture forms (embedded set, or YAML/JSON files under dir)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				set *fixtures.Set
				err error
			)
			if len(args) == 1 {
				set, err = fixtures.LoadFS(os.DirFS(args[0]))
			} else {
				set, err = fixtures.Default()
			}
			if err != nil {
				return err
			}

			api := c.client()
			for _, form := range set.Forms() {
				created, err := api.CreateForm(cmd.Context(), form)
				if err != nil {
					return fmt.Errorf("seed %q: %w", form.Title, err)
				}
				fmt.Fprintf(c.out, "%s\t%s\n", created.FormID, form.Title)
			}
			return nil
		},
	}
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
