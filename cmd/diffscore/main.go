// main is the entry point for the diffscore CLI.
package main

import (
	"github.com/huangsam/diffscore/cmd"
	"github.com/huangsam/diffscore/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run diffscore", err)
	}
}
