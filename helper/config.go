package helper

import (
	"fmt"

	"github.com/spf13/viper"
)

var CfgFile string

// CurrentConfig resolves a key against the active remote section of the config.
func CurrentConfig(key string) string {
	remote := viper.GetString("remote")
	output := viper.GetString(fmt.Sprintf("%s.%s", remote, key))
	return output
}
