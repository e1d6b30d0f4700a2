//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/gridcaster/internal/logger"
)

// rotateOnHangup starts a fresh log file on SIGHUP.
func rotateOnHangup() {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	for range hup {
		if err := logger.Rotate(); err != nil {
			logger.Warn("log rotation failed", zap.Error(err))
			continue
		}
		logger.Info("log file rotated")
	}
}
