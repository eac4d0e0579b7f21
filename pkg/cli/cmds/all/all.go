package all

import (
	// register all commands.
	_ "github.com/robotalks/gauge.go/pkg/cli/cmds/gauge"
	_ "github.com/robotalks/gauge.go/pkg/cli/cmds/measure"
)
