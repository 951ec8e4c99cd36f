package canvasrenderer

import (
	"log"
	"sync/atomic"
)

var debugLogging atomic.Bool

// SetDebugLogging 开启或关闭渲染器内部的调试日志。
func SetDebugLogging(enabled bool) {
	debugLogging.Store(enabled)
}

func logDebug(format string, args ...any) {
	if debugLogging.Load() {
		log.Printf(format, args...)
	}
}
