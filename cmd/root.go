package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/prim/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "prim",
	Short: "Primitive library manager",
	Long: `Prim keeps named geometry primitives in .prim library files, mirrors them
as .obj meshes beside their thumbnails, and instances them into a scene.`,
	RunE:          runRootDefault,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.New().Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .prim.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.String("root", "", "asset root directory (default ./primitives)")
	pf.String("match", "", "block match mode for delete: exact or substring")
	pf.Bool("strict", false, "reject malformed library files instead of skipping bad blocks")

	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("root_dir", pf.Lookup("root"))
	_ = viper.BindPFlag("match_mode", pf.Lookup("match"))
	_ = viper.BindPFlag("strict", pf.Lookup("strict"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".prim")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PRIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
