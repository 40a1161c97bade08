package configure

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/apex/log"
	"github.com/mitchellh/mapstructure"

	"github.com/modgen/modgen/cli/cmdcontext"
	"github.com/modgen/modgen/cli/config"
	"github.com/modgen/modgen/cli/util"
)

const (
	ConfigName = "modgen.yaml"
	// installRootMarker is a file found in every site install root.
	installRootMarker = "core/lib/Drupal.php"
)

const (
	defaultLogMaxSize    = 10
	defaultLogMaxAge     = 7
	defaultLogMaxBackups = 3
)

// GetDefaultCliOpts returns `CliOpts` filled with default values.
func GetDefaultCliOpts() *config.CliOpts {
	return &config.CliOpts{
		Log: &config.LogOpts{
			MaxSize:    defaultLogMaxSize,
			MaxAge:     defaultLogMaxAge,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}

// adjustPathWithConfigLocation adjust provided filePath with configDir.
// Absolute filePath is returned as is. Relative filePath is calculated relative to configDir.
// If filePath is empty, defaultDirName is appended to configDir.
func adjustPathWithConfigLocation(filePath, configDir string,
	defaultDirName string,
) (string, error) {
	if filePath == "" {
		if defaultDirName == "" {
			return "", nil
		}
		return filepath.Abs(filepath.Join(configDir, defaultDirName))
	}
	if filepath.IsAbs(filePath) {
		return filePath, nil
	}
	return filepath.Abs(filepath.Join(configDir, filePath))
}

// updateCliOpts resolves all paths in config relative to specified location.
func updateCliOpts(cliOpts *config.CliOpts, configDir string) error {
	var err error
	if cliOpts.Root, err = adjustPathWithConfigLocation(cliOpts.Root, configDir,
		""); err != nil {
		return err
	}

	for i := range cliOpts.SkeletonDirs {
		if cliOpts.SkeletonDirs[i], err = adjustPathWithConfigLocation(
			cliOpts.SkeletonDirs[i], configDir, "."); err != nil {
			return err
		}
	}

	if cliOpts.Log == nil {
		cliOpts.Log = GetDefaultCliOpts().Log
	}
	if cliOpts.Log.File, err = adjustPathWithConfigLocation(cliOpts.Log.File, configDir,
		""); err != nil {
		return err
	}
	return nil
}

func decodeStringAsArrayField(from, to reflect.Type, value interface{}) (
	interface{}, error,
) {
	if to != reflect.TypeOf(config.PathList{}) || from.Kind() != reflect.String {
		return value, nil
	}
	return []string{value.(string)}, nil
}

func decodeConfig(input map[string]any, cfg *config.Config) error {
	decoderConfig := mapstructure.DecoderConfig{
		Result:     cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(decodeStringAsArrayField),
	}
	decoder, err := mapstructure.NewDecoder(&decoderConfig)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// GetCliOpts returns modgen options from the config file located at
// path configurePath. Defaults are returned if there is no such file.
func GetCliOpts(configurePath string) (*config.CliOpts, string, error) {
	cfg := config.Config{CliConfig: GetDefaultCliOpts()}
	configPath := ""
	if configurePath != "" {
		var err error
		configPath, err = util.GetYamlFileName(configurePath, true)
		if err != nil && !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("failed to get access to configuration file: %s", err)
		}
	}

	if configPath != "" {
		var err error
		if configPath, err = filepath.Abs(configPath); err != nil {
			return nil, "", fmt.Errorf("cannot determine config file path: %s", err)
		}
		rawConfigOpts, err := util.ParseYAML(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse modgen configuration: %s", err)
		}
		if err := decodeConfig(rawConfigOpts, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse modgen configuration: %s", err)
		}
		if cfg.CliConfig == nil {
			return nil, "",
				fmt.Errorf("failed to parse modgen configuration: missing modgen section")
		}
	}

	var configDir string
	var err error
	if configPath == "" {
		if configDir, err = os.Getwd(); err != nil {
			return nil, "", err
		}
	} else {
		configDir = filepath.Dir(configPath)
	}

	if err = updateCliOpts(cfg.CliConfig, configDir); err != nil {
		return nil, "", err
	}
	return cfg.CliConfig, configPath, nil
}

// getConfigPath looks for the path to the modgen.yaml configuration file,
// looking through all directories from startDir to the root.
func getConfigPath(startDir string) (string, error) {
	curDir := startDir
	for {
		configPath, err := util.GetYamlFileName(filepath.Join(curDir, ConfigName), true)
		if err == nil {
			return configPath, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parentDir := filepath.Dir(curDir)
		if parentDir == curDir {
			return "", nil
		}
		curDir = parentDir
	}
}

// DetectInstallRoot returns the closest directory from startDir upwards
// that contains a site install. startDir is returned if there is none.
func DetectInstallRoot(startDir string) string {
	curDir := startDir
	for {
		if util.IsRegularFile(filepath.Join(curDir, filepath.FromSlash(installRootMarker))) {
			return curDir
		}
		parentDir := filepath.Dir(curDir)
		if parentDir == curDir {
			return startDir
		}
		curDir = parentDir
	}
}

// Cli fills the CLI context with the configuration. Options set with flags
// take precedence over the configuration file.
func Cli(cmdCtx *cmdcontext.CmdCtx) (*config.CliOpts, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to detect current directory: %s", err)
	}

	if cmdCtx.Cli.ConfigPath == "" {
		if cmdCtx.Cli.ConfigPath, err = getConfigPath(curDir); err != nil {
			return nil, fmt.Errorf("failed to get modgen config: %s", err)
		}
	} else if _, err = os.Stat(cmdCtx.Cli.ConfigPath); err != nil {
		return nil, fmt.Errorf("specified path to the configuration file is invalid: %s", err)
	}

	cliOpts, configPath, err := GetCliOpts(cmdCtx.Cli.ConfigPath)
	if err != nil {
		return nil, err
	}
	cmdCtx.Cli.ConfigPath = configPath
	cmdCtx.Cli.ConfigDir = curDir
	if configPath != "" {
		cmdCtx.Cli.ConfigDir = filepath.Dir(configPath)
		log.Debugf("Using configuration file %q.", configPath)
	}

	switch {
	case cmdCtx.Cli.Root != "":
		if cmdCtx.Cli.Root, err = filepath.Abs(cmdCtx.Cli.Root); err != nil {
			return nil, err
		}
	case cliOpts.Root != "":
		cmdCtx.Cli.Root = cliOpts.Root
	default:
		cmdCtx.Cli.Root = DetectInstallRoot(curDir)
	}
	cliOpts.Root = cmdCtx.Cli.Root

	skeletonDirs := make([]string, 0, len(cmdCtx.Cli.SkeletonDirs)+len(cliOpts.SkeletonDirs))
	for _, dir := range cmdCtx.Cli.SkeletonDirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		if !util.IsDir(absDir) {
			return nil, fmt.Errorf("skeleton directory %q does not exist", dir)
		}
		skeletonDirs = append(skeletonDirs, absDir)
	}
	cmdCtx.Cli.SkeletonDirs = append(skeletonDirs, cliOpts.SkeletonDirs...)
	cliOpts.SkeletonDirs = cmdCtx.Cli.SkeletonDirs

	if cmdCtx.Cli.LogFile != "" {
		cliOpts.Log.File = cmdCtx.Cli.LogFile
	}
	cmdCtx.Cli.LogFile = cliOpts.Log.File
	return cliOpts, nil
}
