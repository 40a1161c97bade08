package config

// Config used to store all information from the
// modgen.yaml configuration file.
type Config struct {
	CliConfig *CliOpts `mapstructure:"modgen" yaml:"modgen"`
}

// modgen.yaml file format:
// modgen:
//   root: path
//   skeleton_dirs: [path]
//   log:
//     file: path
//     maxsize: num (MB)
//     maxage: num (Days)
//     maxbackups: num

// LogOpts is used to store log file options.
type LogOpts struct {
	// File is a path to the log file. Logging to file is disabled if empty.
	File string `mapstructure:"file" yaml:"file"`
	// MaxSize is a maximum size in MB of the log file before
	// it gets rotated.
	MaxSize int `mapstructure:"maxsize" yaml:"maxsize"`
	// MaxAge is the maximum number of days to retain old log files
	// based on the timestamp encoded in their filename.
	MaxAge int `mapstructure:"maxage" yaml:"maxage"`
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `mapstructure:"maxbackups" yaml:"maxbackups"`
}

// PathList is a list of paths. A single path is accepted in place of a list.
type PathList []string

// CliOpts is used to store modgen options.
type CliOpts struct {
	// Root is the site install root. It is detected if empty.
	Root string `mapstructure:"root" yaml:"root"`
	// SkeletonDirs are skeleton template directories, the most specific first.
	SkeletonDirs PathList `mapstructure:"skeleton_dirs" yaml:"skeleton_dirs"`
	// Log contains log file options.
	Log *LogOpts `mapstructure:"log" yaml:"log"`
}
