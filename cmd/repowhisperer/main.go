package main

import (
	"github.com/repowhisperer/repowhisperer/internal/cli"
)

func main() {
	cli.Execute()
}
