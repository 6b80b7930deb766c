package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wrenhall/realmlog/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	                 _       _
	 _ __ ___  __ _| |_ __ | | ___   __ _
	| '__/ _ \/ _' | | '_ \| |/ _ \ / _' |
	| | |  __/ (_| | | | | | | (_) | (_| |
	|_|  \___|\__,_|_|_| |_|_|\___/ \__, |
	                                |___/

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "realmlog",
	Short: "A session-log item resolver for tile-and-counter board games.",
	Long: LOGO + `realmlog resolves the item names recorded in play-session logs against
the canonical game-data catalog, precomputes per-session item caches, and
classifies every item into its display category (weapon, armor, spell,
treasure and friends) for the log viewer.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.realmlog.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("items-dir", "", "", "Items store directory (one subdirectory per category)")
	rootCmd.PersistentFlags().StringP("spells-dir", "", "", "Spells store directory (one subdirectory per level)")
	rootCmd.PersistentFlags().StringP("sessions-dir", "", "", "Sessions directory (one subdirectory per session)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".realmlog")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.realmlog.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("catalog.items_dir", "data/items")
	viper.SetDefault("catalog.spells_dir", "data/spells")
	viper.SetDefault("sessions.dir", "sessions")
	viper.SetDefault("lookup.url", "")
	viper.SetDefault("resolver.batch_size", 5)
	viper.SetDefault("resolver.batch_delay_ms", 50)

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// itemsDir resolves the items store location: flag first, then config.
func itemsDir() string {
	if dir, _ := rootCmd.PersistentFlags().GetString("items-dir"); dir != "" {
		return dir
	}
	return viper.GetString("catalog.items_dir")
}

func spellsDir() string {
	if dir, _ := rootCmd.PersistentFlags().GetString("spells-dir"); dir != "" {
		return dir
	}
	return viper.GetString("catalog.spells_dir")
}

func sessionsDir() string {
	if dir, _ := rootCmd.PersistentFlags().GetString("sessions-dir"); dir != "" {
		return dir
	}
	return viper.GetString("sessions.dir")
}
