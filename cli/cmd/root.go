package cmd

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/modgen/modgen/cli/cmdcontext"
	"github.com/modgen/modgen/cli/config"
	"github.com/modgen/modgen/cli/configure"
	"github.com/modgen/modgen/cli/genlog"
)

var (
	cmdCtx     cmdcontext.CmdCtx
	cliOpts    *config.CliOpts
	rootCmd    *cobra.Command
	fileLogger *genlog.Logger
)

// NewCmdRoot creates a new root command.
func NewCmdRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modgen",
		Short: "CMS module code generator",
		Long:  "Utility for generating code of CMS modules from skeleton templates",
		Example: `$ modgen generate controller --module demo --class DemoController
  $ modgen modules -r /var/www/site
  $ modgen version --short`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initCli()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cmdCtx.Cli.ConfigPath, "cfg", "c",
		"", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&cmdCtx.Cli.Root, "root", "r",
		"", "Site install root. Detected from the working directory if not set")
	rootCmd.PersistentFlags().StringSliceVarP(&cmdCtx.Cli.SkeletonDirs, "skeleton", "s",
		nil, "Skeleton template directories, the most specific first")
	rootCmd.PersistentFlags().BoolVarP(&cmdCtx.Cli.Verbose, "verbose", "V",
		false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&cmdCtx.Cli.LogFile, "log-file",
		"", "Write log entries into the file")

	rootCmd.AddCommand(
		NewVersionCmd(),
		NewModulesCmd(),
		NewGenerateCmd(),
		NewCompletionCmd(),
	)
	rootCmd.InitDefaultHelpCmd()

	log.SetHandler(cli.Default)

	return rootCmd
}

// initCli configures modgen and its logging.
func initCli() error {
	if cmdCtx.Cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	var err error
	if cliOpts, err = configure.Cli(&cmdCtx); err != nil {
		return err
	}

	if cliOpts.Log.File != "" && fileLogger == nil {
		fileLogger = genlog.NewLogger(genlog.LoggerOpts{
			Filename:   cliOpts.Log.File,
			MaxSize:    cliOpts.Log.MaxSize,
			MaxBackups: cliOpts.Log.MaxBackups,
			MaxAge:     cliOpts.Log.MaxAge,
		})
		log.SetHandler(fileLogger.Tee(cli.Default))
	}
	log.Debugf("Site install root: %s.", cmdCtx.Cli.Root)
	return nil
}

// Execute root command.
func Execute() {
	err := rootCmd.Execute()
	if fileLogger != nil {
		fileLogger.Close()
	}
	if err != nil {
		log.Fatalf(err.Error())
	}
}

// InitRoot creates the root command.
func InitRoot() {
	rootCmd = NewCmdRoot()
}
