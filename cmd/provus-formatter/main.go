package main

import "github.com/anthonyznova/ProvusDataFormatter/cmd/provus-formatter/cmd"

// set by the compiler
var version string

func main() {
	cmd.Execute(version)
}
