// internal/cli/show_config.go
package medbench

import (
	"os"

	"github.com/k0kubun/pp"
	"github.com/livemedbench/medbench/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd prints the merged configuration, ensuring that the JSON
// config is loaded properly and overridden by flags accordingly.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(os.Stdout, viper.ConfigFileUsed(), GetConfig(), appconfig.Config{})
		if DebugEnabled() && GetConfig() != nil {
			pp.Println(*GetConfig())
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
