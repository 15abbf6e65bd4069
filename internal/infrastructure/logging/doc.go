// Package logging builds the zap root logger from the LOG_LEVEL and LOG_DEV
// settings.
//
// Production output is JSON with sampling; development output is colored
// console text. The cache manager logs lifecycle events and every strategy
// revision at debug level, and global limit changes at info level.
//
//	logger, err := logging.New(cfg.Logging)
//	logger.Info("Cache manager starting", zap.String("port", cfg.Server.Port))
package logging
