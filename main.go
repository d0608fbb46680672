package main

import "github.com/novadent/novadent/cmd"

func main() {
	cmd.Start()
}
