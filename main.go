package main

import (
	"os"

	"github.com/giftring/giftring/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
