package main

import "github.com/sandrolain/iris-docs/internal/cli"

func main() {
	cli.Execute()
}
