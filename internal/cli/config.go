package cli

import (
	"github.com/spf13/pflag"

	"github.com/specialistvlad/smolix/internal/app"
	"github.com/specialistvlad/smolix/internal/hcl"
)

// Flag names shared by the commands and the config merge.
const (
	flagConfig          = "config"
	flagLogLevel        = "log-level"
	flagLogFormat       = "log-format"
	flagStrictNames     = "strict-names"
	flagLevels          = "levels"
	flagParallelism     = "parallelism"
	flagStopOnError     = "stop-on-error"
	flagHealthcheckPort = "healthcheck-port"
)

// options holds the raw flag values of one invocation.
type options struct {
	configPath string
	cfg        app.Config
	levels     bool
}

// resolveConfig layers the config file under the flags: a file value is used
// only when the corresponding flag was not given explicitly.
func resolveConfig(flags *pflag.FlagSet, opts *options) (*app.Config, error) {
	cfg := opts.cfg
	if opts.configPath != "" {
		file, err := hcl.LoadConfigFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		applyFile(flags, &cfg, file)
	}
	return app.NewConfig(cfg)
}

func applyFile(flags *pflag.FlagSet, cfg *app.Config, file *hcl.ConfigFile) {
	unset := func(name string) bool {
		f := flags.Lookup(name)
		return f == nil || !f.Changed
	}
	if file.LogLevel != nil && unset(flagLogLevel) {
		cfg.LogLevel = *file.LogLevel
	}
	if file.LogFormat != nil && unset(flagLogFormat) {
		cfg.LogFormat = *file.LogFormat
	}
	if file.StrictNames != nil && unset(flagStrictNames) {
		cfg.StrictNames = *file.StrictNames
	}
	if file.Parallelism != nil && unset(flagParallelism) {
		cfg.Parallelism = *file.Parallelism
	}
	if file.StopOnError != nil && unset(flagStopOnError) {
		cfg.StopOnError = *file.StopOnError
	}
	if file.HealthcheckPort != nil && unset(flagHealthcheckPort) {
		cfg.HealthcheckPort = *file.HealthcheckPort
	}
}
