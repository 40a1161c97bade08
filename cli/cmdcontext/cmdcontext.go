package cmdcontext

// CmdCtx is the main structure of the program context.
type CmdCtx struct {
	// Cli - CLI context. Contains flags passed when starting
	// modgen and some other parameters.
	Cli CliCtx
	// CommandName contains name of the command.
	CommandName string
}

// CliCtx - CLI context. Contains flags passed when starting
// modgen and some other parameters.
type CliCtx struct {
	// Path to modgen config.
	ConfigPath string
	// ConfigDir is modgen configuration file directory.
	// And current working directory, if there is no config.
	ConfigDir string
	// Root is the site install root.
	Root string
	// SkeletonDirs are skeleton template directories, the most specific first.
	SkeletonDirs []string
	// LogFile is a path to the log file.
	LogFile string
	// Verbose logging flag. Enables debug log output.
	Verbose bool
}
