package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/gauge.go/pkg/config"
	"github.com/robotalks/gauge.go/pkg/daemon"
	"github.com/robotalks/gauge.go/pkg/framework"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg := config.Default()
	if err := cfg.Load(flag.CommandLine); err != nil {
		glog.Exitf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		glog.Exitf("config: %v", err)
	}

	runner := framework.NewRunner().HandleSignals()
	for {
		d, err := daemon.New(cfg)
		if err != nil {
			glog.Exitf("start: %v", err)
		}
		err = d.Run(runner.Context)
		d.Close()
		if err == daemon.ErrRestart {
			glog.Warning("restarting")
			continue
		}
		if err != nil {
			glog.Exit(err)
		}
		return
	}
}
