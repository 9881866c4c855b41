package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. AFAD_QUAKES_LOG_LEVEL.
const EnvPrefix = "AFAD_QUAKES"

// applyConfig fills every flag not set on the command line from the config file
// (if --config is given) and then from AFAD_QUAKES_* environment variables.
// Command-line flags win over the environment, which wins over the file.
func applyConfig(cmd *cobra.Command, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	var firstErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if firstErr != nil || f.Changed || f.Name == "config" || f.Name == "help" || !v.IsSet(f.Name) {
			return
		}
		value := v.GetString(f.Name)
		if f.Value.Type() == "stringSlice" {
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil {
			firstErr = fmt.Errorf("applying %s: %w", f.Name, err)
		}
	})
	return firstErr
}
