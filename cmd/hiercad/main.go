package main

import "github.com/kicadtoolkit/hiercad/cmd/hiercad/cmd"

func main() {
	cmd.Execute()
}
