package utils

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv loads the given dotenv files (".env" when none are given) into the
// process environment. Variables that are already set win.
func LoadEnv(logger *zap.Logger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("ENV file not found or failed to load, using process environment", zap.Strings("files", files))
		return
	}
	logger.Info("ENV file loaded successfully", zap.Strings("files", files))
}
