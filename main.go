package main

import "github.com/soulgarden/bfx-postonly/cmd"

func main() {
	cmd.Execute()
}
