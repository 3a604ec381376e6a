package main

import "github.com/taskdeck/taskdeck/internal/cli"

func main() {
	cli.Execute()
}
