package main

import "github.com/pocketbank-dev/pocketbank/internal/cli"

func main() {
	cli.Execute()
}
