package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func addFlags(flags *pflag.FlagSet, v *viper.Viper, bindings []flagBinding) {
	for _, b := range bindings {
		flags.String(b.flag, v.GetString(b.key), b.usage)
		_ = v.BindPFlag(b.key, flags.Lookup(b.flag))
	}
}

func addBoolFlag(flags *pflag.FlagSet, v *viper.Viper, key, name, usage string) {
	flags.Bool(name, v.GetBool(key), usage)
	_ = v.BindPFlag(key, flags.Lookup(name))
}
