package main

import (
	"os"

	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/hl7cli"
	"github.com/Shakib-GH-Ahmed/hl7-siu-parser/log"
)

func main() {
	app := hl7cli.GetApp()
	if err := app.Run(os.Args); err != nil {
		log.CLI.Fatal(err)
	}
}
