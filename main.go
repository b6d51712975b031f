package main

import "narrator-cli/cmd"

func main() {
	cmd.Execute()
}
