package main

import (
	"postcraft/cmd/handlers"
	"postcraft/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
