package main

import "github.com/mcoot/spellgame/internal/cli"

func main() {
	cli.Execute()
}
