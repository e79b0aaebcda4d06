package main

import "github.com/zerbitx/gnockapi/cli"

func main() {
	cli.Execute()
}
