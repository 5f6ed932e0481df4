package utils

import "runtime/debug"

// RecoverFromPanic logs a recovered panic with its stack trace. Meant to
// be deferred at the top of a goroutine.
func RecoverFromPanic(logger *Logger, context string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered in %s: %v\nStack trace:\n%s", context, r, debug.Stack())
	}
}

// SafeGo runs fn on a new goroutine. A panic is logged instead of
// crashing the process.
func SafeGo(logger *Logger, context string, fn func()) {
	go func() {
		defer RecoverFromPanic(logger, context)
		fn()
	}()
}

// SafeGoWithError is SafeGo for functions that report failure. The error
// is logged and handed to onError when set; fn owns its success path.
func SafeGoWithError(logger *Logger, context string, fn func() error, onError func(error)) {
	go func() {
		defer RecoverFromPanic(logger, context)
		if err := fn(); err != nil {
			logger.Error("Error in %s: %v", context, err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}
