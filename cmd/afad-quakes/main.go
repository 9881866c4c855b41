package main

import "github.com/pfrederiksen/afad-quakes/internal/cli"

func main() {
	cli.Execute()
}
