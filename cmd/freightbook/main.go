package main

import "freightbook/internal/cli"

func main() {
	cli.Execute()
}
