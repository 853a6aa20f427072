package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	jsre "github.com/magnetde/starlark-jsre"
	"github.com/magnetde/starlark-jsre/regex"
)

// Configuration keys. Every key can also be set by the environment variable with the prefix
// `JSRE_`, like `JSRE_CACHE_SIZE`.
const (
	keyConfig    = "config"
	keyStrict    = "strict"
	keyTimeout   = "timeout"
	keyCacheSize = "cache-size"
	keyLogLevel  = "log-level"
)

// app holds the configuration shared by all subcommands.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:      viper.New(),
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "jsre",
		Short:         "Translate and run ECMAScript regular expressions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	a.bindFlags(root.PersistentFlags())
	root.AddCommand(newTranslateCmd(a), newRunCmd(a), newCategoryCmd())

	return root
}

// bindFlags defines the global flags and binds them to the configuration.
func (a *app) bindFlags(fs *pflag.FlagSet) {
	fs.String(keyConfig, "", "Read the configuration from this file.")
	fs.Bool(keyStrict, false, "Fail for patterns, that cannot be translated, instead of logging a warning.")
	fs.Duration(keyTimeout, 0, "If non-zero, limit the duration of a single match.")
	fs.Int(keyCacheSize, 64, "Maximum number of cached patterns.")
	fs.String(keyLogLevel, "warn", "Minimum level of log messages.")

	if err := a.v.BindPFlags(fs); err != nil {
		panic(err) // only fails for nil flags
	}

	a.v.SetEnvPrefix("jsre")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
}

// init reads the configuration file and creates the logger.
func (a *app) init(cmd *cobra.Command) error {
	if f := a.v.GetString(keyConfig); f != "" {
		a.v.SetConfigFile(f)

		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", f)
		}
	}

	level, err := zapcore.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(cmd.ErrOrStderr()), level)
	a.logger = zap.New(core)

	return nil
}

func (a *app) strict() bool { return a.v.GetBool(keyStrict) }

func (a *app) timeout() time.Duration { return a.v.GetDuration(keyTimeout) }

func (a *app) policy() regex.Policy {
	if a.strict() {
		return regex.Strict
	}
	return regex.Tolerant
}

// module creates the jsre module with the current configuration.
func (a *app) module() *jsre.Module {
	return jsre.NewModule(
		jsre.WithStrict(a.strict()),
		jsre.WithCacheSize(a.v.GetInt(keyCacheSize)),
		jsre.WithMatchTimeout(a.timeout()),
		jsre.WithLogger(a.logger),
	)
}
