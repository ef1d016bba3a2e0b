package main

import "github.com/wixtools/wixgen/cmd/wxsgen/cmd"

func main() {
	cmd.Execute()
}
