package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger. Development mode gets console encoding
// with human-readable timestamps, everything else logs structured JSON.
func New(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
