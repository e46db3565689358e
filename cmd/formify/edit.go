package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formify/pkg/editor"
	"github.com/goliatone/go-formify/pkg/model"
)

func (c *cli) newCmd() *cobra.Command {
	var (
		title       string
		description string
		force       bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new form draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(c.draftPath); err == nil {
					return fmt.Errorf("draft %s already exists; use --force to replace it", c.draftPath)
				}
			}
			s := editor.NewSession(c.sessionOptions()...)
			s.SetTitle(title)
			s.SetDescription(description)
			if err := c.saveSession(s); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created draft %s\n", c.draftPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Form title")
	cmd.Flags().StringVar(&description, "description", "", "Form description")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing draft")
	return cmd
}

func (c *cli) titleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "title <text>",
		Short: "Set the form title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				s.SetTitle(args[0])
				return nil
			})
		},
	}
}

func (c *cli) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <text>",
		Short: "Set the form description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				s.SetDescription(args[0])
				return nil
			})
		},
	}
}

func (c *cli) stepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Manage the steps of the draft",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Append a step and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				step := s.Steps.AddStep()
				fmt.Fprintf(c.out, "Added %s (%s)\n", step.ID, step.Title)
				return nil
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename <step-id> <title>",
		Short: "Rename a step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				return s.Steps.RenameStep(args[0], args[1])
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <step-id>",
		Short: "Delete a step and its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				return s.Steps.DeleteStep(args[0])
			})
		},
	}

	sel := &cobra.Command{
		Use:   "select <step-id>",
		Short: "Make a step active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				return s.Steps.SetActiveStep(args[0])
			})
		},
	}

	move := &cobra.Command{
		Use:   "move <step-id> <target-step-id>",
		Short: "Move a step to the position of another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				if !s.Steps.MoveStep(args[0], args[1]) {
					return fmt.Errorf("cannot move %s to %s", args[0], args[1])
				}
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tTITLE\tQUESTIONS")
			for _, step := range s.Steps.Steps() {
				marker := ""
				if step.ID == s.Steps.ActiveStepID() {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", marker, step.ID, step.Title, len(s.Form.StepQuestions(step.ID)))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(add, rename, del, sel, move, list)
	return cmd
}

// questionFlags binds the editable question fields. Only flags the user set
// end up in the patch.
type questionFlags struct {
	text        string
	kind        string
	required    bool
	placeholder string
}

func (f *questionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "Question text")
	cmd.Flags().StringVar(&f.kind, "type", "", "Question type (short, paragraph, multiple, checkbox, dropdown)")
	cmd.Flags().BoolVar(&f.required, "required", false, "Mark the question as required")
	cmd.Flags().StringVar(&f.placeholder, "placeholder", "", "Placeholder text")
}

func (f *questionFlags) patch(cmd *cobra.Command) (model.QuestionPatch, error) {
	var patch model.QuestionPatch
	flags := cmd.Flags()
	if flags.Changed("text") {
		patch.Text = model.String(f.text)
	}
	if flags.Changed("type") {
		t, err := model.ParseQuestionType(f.kind)
		if err != nil {
			return patch, err
		}
		patch.Type = model.Type(t)
	}
	if flags.Changed("required") {
		patch.Required = model.Bool(f.required)
	}
	if flags.Changed("placeholder") {
		patch.Placeholder = model.String(f.placeholder)
	}
	return patch, nil
}

func (c *cli) questionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "question",
		Aliases: []string{"q"},
		Short:   "Manage the questions of the active step",
	}

	var addFlags questionFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a question to the active step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := addFlags.patch(cmd)
			if err != nil {
				return err
			}
			return c.edit(func(s *editor.Session) error {
				q := s.Questions.AddQuestion()
				if !patch.Empty() {
					if q, err = s.Questions.UpdateQuestion(q.ID, patch); err != nil {
						return err
					}
				}
				fmt.Fprintf(c.out, "Added %s to %s\n", q.ID, q.StepID)
				return nil
			})
		},
	}
	addFlags.bind(add)

	var updateFlags questionFlags
	update := &cobra.Command{
		Use:   "update <question-id>",
		Short: "Change the fields of a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := updateFlags.patch(cmd)
			if err != nil {
				return err
			}
			if patch.Empty() {
				return errors.New("nothing to update; pass at least one of --text, --type, --required, --placeholder")
			}
			return c.edit(func(s *editor.Session) error {
				_, err := s.Questions.UpdateQuestion(args[0], patch)
				return err
			})
		},
	}
	updateFlags.bind(update)

	del := &cobra.Command{
		Use:   "delete <question-id>",
		Short: "Delete a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				return s.Questions.DeleteQuestion(args[0])
			})
		},
	}

	move := &cobra.Command{
		Use:   "move <question-id> <target-question-id>",
		Short: "Move a question to the position of another in the same step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				if !s.Questions.Reorder(args[0], args[1]) {
					return fmt.Errorf("cannot move %s to %s", args[0], args[1])
				}
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the questions of the active step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tREQUIRED\tTEXT\tOPTIONS")
			for _, q := range s.Questions.Questions() {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%d\n", q.ID, q.Type, q.Required, q.Text, len(q.Options))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(add, update, del, move, list)
	return cmd
}

func (c *cli) optionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "option",
		Short: "Manage the options of a choice question (positions are 1-based)",
	}

	add := &cobra.Command{
		Use:   "add <question-id> [value]",
		Short: "Append an option",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(func(s *editor.Session) error {
				q, err := s.Questions.AddOption(args[0])
				if err != nil {
					return err
				}
				if len(args) == 2 {
					_, err = s.Questions.UpdateOption(q.ID, len(q.Options)-1, args[1])
				}
				return err
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <question-id> <position> <value>",
		Short: "Replace an option",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := position(args[1])
			if err != nil {
				return err
			}
			return c.edit(func(s *editor.Session) error {
				_, err := s.Questions.UpdateOption(args[0], index, args[2])
				return err
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <question-id> <position>",
		Short: "Remove an option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := position(args[1])
			if err != nil {
				return err
			}
			return c.edit(func(s *editor.Session) error {
				_, err := s.Questions.RemoveOption(args[0], index)
				return err
			})
		},
	}

	cmd.AddCommand(add, set, remove)
	return cmd
}

// position converts a 1-based position argument into an index.
func position(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", raw)
	}
	return n - 1, nil
}
