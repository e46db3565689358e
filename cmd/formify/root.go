package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formify/internal/logging"
	"github.com/goliatone/go-formify/pkg/client"
	"github.com/goliatone/go-formify/pkg/renderers/tui"
)

// cli carries the persistent flags and collaborators shared by commands.
type cli struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	draftPath  string
	serverURL  string
	userID     string
	verbose    bool

	logger *zap.Logger
	// prompts overrides the terminal driver used by fill.
	prompts tui.PromptDriver
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}
	return c.rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formify",
		Short: "Build, preview and collect multi-step forms",
		Long: `formify edits a multi-step form draft stored in a local YAML file,
previews it, saves it to a formify server and fills published forms from
the terminal.

Examples:
  formify new --title "Customer Feedback"
  formify question add --text "Name" --type short --required
  formify step add
  formify question add --text "Overall" --type multiple
  formify option add question-2 "Good"
  formify preview --format text
  formify save
  formify serve --config formify.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.ForCLI(c.verbose)
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Path to a YAML config file (serve)")
	flags.StringVarP(&c.draftPath, "draft", "d", "form.yaml", "Path to the local draft file")
	flags.StringVar(&c.serverURL, "server", "http://localhost:5000", "Base URL of the formify server")
	flags.StringVar(&c.userID, "user", "", "User id sent to the server")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		c.newCmd(),
		c.titleCmd(),
		c.describeCmd(),
		c.stepCmd(),
		c.questionCmd(),
		c.optionCmd(),
		c.previewCmd(),
		c.saveCmd(),
		c.draftCmd(),
		c.fillCmd(),
		c.formsCmd(),
		c.seedCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *cli) client() *client.Client {
	opts := []client.Option{}
	if c.userID != "" {
		opts = append(opts, client.WithUserID(c.userID))
	}
	return client.New(c.serverURL, opts...)
}

func (c *cli) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}
