package main

import (
	"log"
	"os"

	"github.com/Trinoooo/eggie_seqdb/storage/cli"
	"github.com/Trinoooo/eggie_seqdb/storage/logs"
)

func main() {
	wrapper := cli.NewWrapper()
	err := wrapper.Run(os.Args)
	logs.Sync()
	if err != nil {
		log.Fatal(err)
	}
}
