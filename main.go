package main

import "github.com/prohubhq/prohub/cmd"

func main() {
	cmd.Execute()
}
