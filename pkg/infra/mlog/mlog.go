// 指示: miu200521358
// Package mlog はパイプライン共通のログ出力を提供する。
package mlog

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newLogger(false)
)

// newLogger はコンソール向けのzapロガーを生成する。
func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return base.Sugar()
}

// SetVerbose はデバッグ出力の有効・無効を切り替える。
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(verbose)
}

// D はデバッグログを出力する。
func D(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Debug(fmt.Sprintf(format, args...))
}

// I は情報ログを出力する。
func I(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Info(fmt.Sprintf(format, args...))
}

// W は警告ログを出力する。
func W(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Warn(fmt.Sprintf(format, args...))
}

// E はエラーログを出力する。
func E(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Error(fmt.Sprintf(format, args...))
}
