package main

import "github.com/linqs/psl-grounding-benchmarks/internal/cli"

func main() {
	cli.Execute()
}
