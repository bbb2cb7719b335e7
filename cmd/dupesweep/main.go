package main

import (
	"github.com/dupesweep/dupesweep/cmd"
)

func main() {
	cmd.Execute()
}
