package main

import (
	"github.com/dyphira-git/dyfusion-explorer/cmd/explorer"
)

func main() {
	explorer.Execute()
}
