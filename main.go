package main

import "github.com/dotcommander/districtkpi/cmd"

func main() {
	cmd.Execute()
}
