package main

import "github.com/nfrund/gridsky/cmd/gridsky/cmd"

func main() {
	cmd.Execute()
}
