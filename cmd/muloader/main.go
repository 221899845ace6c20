// muloader - Load WordPress plugins as must-use plugins
//
// muloader forces selected WordPress plugins of a Composer project to install
// as must-use plugins and writes the bootstrap file that loads them.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"github.com/jmylchreest/muloader/internal/cli"
)

func main() {
	cli.Execute()
}
