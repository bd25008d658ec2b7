package main

import (
	"github.com/kestrel-legal/matterlog/backend/internal/server"
	"github.com/kestrel-legal/matterlog/backend/internal/util"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
