package main

import "github.com/mcoot/playmoney/internal/cli"

func main() {
	cli.Execute()
}
