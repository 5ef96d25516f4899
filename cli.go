//go:build cli
// +build cli

package main

import (
	_ "labchem.GO/custom"

	"labchem.GO/cmd"
	"labchem.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
