package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sprout "github.com/sproutlabs/sprout/pkg"
)

const (
	templateFlag      = "template"
	templatesRootFlag = "templates-root"
	namespaceFlag     = "namespace"
	outputFolderFlag  = "output-folder"
	overrideFlag      = "override"
	logLevelFlag      = "log-level"
	configFlag        = "config"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "sprout [project-name]",
		Short: "A project generation tool",
		Long: `Sprout creates new projects from project templates.

Templates are git repositories named template-<name> under a namespace,
optionally mirrored in a local templates root. Missing inputs are collected
interactively.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(viper.GetString(logLevelFlag))

			projectName := ""
			if len(args) == 1 {
				projectName = args[0]
			}

			overrides, err := cmd.Flags().GetStringToString(overrideFlag)
			if err != nil {
				return err
			}

			s := sprout.NewSprout(
				sprout.WithTemplatesRoot(viper.GetString(templatesRootFlag)),
				sprout.WithNamespace(viper.GetString(namespaceFlag)),
				sprout.WithOutputFolder(viper.GetString(outputFolderFlag)),
				sprout.WithOverrides(overrides),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return s.Create(ctx, projectName, viper.GetString(templateFlag))
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, configFlag, "", "config file (default is $HOME/.sprout.yml)")
	rootCmd.PersistentFlags().StringP(logLevelFlag, "l", "warn", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringP(templateFlag, "t", "", "template to scaffold from")
	rootCmd.Flags().String(templatesRootFlag, sprout.DefaultTemplatesRoot(), "local catalog of template directories")
	rootCmd.Flags().String(namespaceFlag, sprout.DefaultNamespace, "namespace templates are fetched from")
	rootCmd.Flags().String(outputFolderFlag, ".", "scaffold the project in the provided output directory")
	rootCmd.Flags().StringToStringP(overrideFlag, "o", map[string]string{}, "provide overrides as key-value pairs")

	for _, flag := range []string{templateFlag, templatesRootFlag, namespaceFlag, outputFolderFlag} {
		cobra.CheckErr(viper.BindPFlag(flag, rootCmd.Flags().Lookup(flag)))
	}
	cobra.CheckErr(viper.BindPFlag(logLevelFlag, rootCmd.PersistentFlags().Lookup(logLevelFlag)))
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = os.Getenv("SPROUT_CONFIG_FILE")
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".sprout")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SPROUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "⚠ ignoring config file:", err)
		}
	}
}

func configureLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
