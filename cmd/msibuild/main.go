package main

import "github.com/wixtools/wixgen/cmd/msibuild/cmd"

func main() {
	cmd.Execute()
}
