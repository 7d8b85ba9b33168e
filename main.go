package main

import (
	"log"

	"github.com/josepaz/rumbo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
