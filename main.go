package main

import "mbox2html/internal/cli"

func main() {
	cli.Execute()
}
