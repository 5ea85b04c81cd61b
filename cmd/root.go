/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/azure/vm-dr-cost-estimator/config"
	"github.com/azure/vm-dr-cost-estimator/types"
)

const (
	exitCodeError        = 1
	exitCodePrimaryPhase = 2
	exitCodeDRPhase      = 3
)

var (
	log        = logrus.New()
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vm-dr-cost-estimator",
	Short: "Estimate monthly Azure VM costs for a primary and DR deployment",
	Long: `Estimates the monthly cost of running virtual machines in a primary region
and a disaster recovery region using the Azure Retail Prices API.

Configuration can be supplied with flags, a YAML file (--config) or
environment variables prefixed with VMDR_ (for example VMDR_PRIMARY=westeurope).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The process exits with 2 when the primary phase fails, 3 when the DR phase fails and 1 otherwise.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(ExitCode(err))
	}
}

func ExitCode(err error) int {
	var phaseError *types.PhaseError
	if errors.As(err, &phaseError) {
		if phaseError.Phase == types.PhasePrimary {
			return exitCodePrimaryPhase
		}
		return exitCodeDRPhase
	}
	return exitCodeError
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file to read estimate inputs from")
	rootCmd.PersistentFlags().StringP("verbosity", "v", "info", "Log level (trace, debug, info, warn, error)")
	viper.BindPFlag(config.KeyVerbosity, rootCmd.PersistentFlags().Lookup("verbosity"))
	rootCmd.PersistentFlags().Bool("structuredLogs", false, "Write logs as JSON")
	viper.BindPFlag(config.KeyStructuredLogs, rootCmd.PersistentFlags().Lookup("structuredLogs"))
}

func initConfig() {
	if configPath != "" {
		viper.SetConfigFile(configPath)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("Error reading config file %s: %v", configPath, err)
		}
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())
}

func configureLogger() error {
	logLevel, err := logrus.ParseLevel(viper.GetString(config.KeyVerbosity))
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", viper.GetString(config.KeyVerbosity))
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{})
	if viper.GetBool(config.KeyStructuredLogs) {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}
