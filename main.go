// Package main is the entry point for the bundlescope CLI.
package main

import (
	"github.com/huangsam/bundlescope/cmd"
	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/internal/iocache"
)

func main() {
	err := cmd.Execute()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("bundlescope failed", err)
	}
}
