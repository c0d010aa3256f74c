package main

import "kifunav/cmd/kifunav-cli/cmd"

func main() {
	cmd.Execute()
}
