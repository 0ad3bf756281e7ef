package main

import (
	"os"

	"github.com/junaidrashid-git/food-delivery-api/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logger.Log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
