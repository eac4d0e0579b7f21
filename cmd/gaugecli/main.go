package main

import (
	"github.com/robotalks/gauge.go/pkg/cli/sh"

	_ "github.com/robotalks/gauge.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
