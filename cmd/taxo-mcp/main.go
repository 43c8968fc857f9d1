package main

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/taxolab/taxo/pkg/taxo"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	s := newServer(logger)

	logger.Info("Starting taxo MCP server", zap.String("version", taxo.Version))
	if err := server.ServeStdio(s); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// newLogger builds a production JSON logger. Stdout carries the
// protocol, so every log line goes to stderr.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
