package main

import "github.com/andrescamacho/batchreactor-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
