package main

import (
	"log"
	"os"

	"schoolhub/core"
	"schoolhub/core/session"
	"schoolhub/restapi"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	errAndDie(err)

	validate, translator := core.NewValidator()
	api := restapi.NewClient(conf.Backend.BaseURL, conf.Backend.Timeout)

	cli := commandLine{
		api:     api,
		sessSvc: session.NewService(api, validate, translator),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
