package main

import (
	"wikibrief/cmd/handlers"
	"wikibrief/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
