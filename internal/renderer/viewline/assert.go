package viewline

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	assertionsEnabled atomic.Bool
	assertLogger      atomic.Pointer[zap.Logger]
)

// SetLogger installs the logger used to report invariant violations.
// A nil logger discards reports.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	assertLogger.Store(l)
}

// EnableAssertions turns on invariant checks after every render. A broken
// mapping yields wrong caret positions without any other symptom, so
// hosts enable this in debug builds.
func EnableAssertions(on bool) {
	assertionsEnabled.Store(on)
}

func logger() *zap.Logger {
	if l := assertLogger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

func checkOutput(r *resolvedInput, out *RenderLineOutput) {
	if !assertionsEnabled.Load() {
		return
	}
	log := logger()

	if got := out.CharacterMapping.Length(); got != r.length+1 {
		log.Error("character mapping length mismatch",
			zap.Int("length", got),
			zap.Int("expected", r.length+1))
	}
	if err := out.CharacterMapping.Validate(); err != nil {
		log.Error("character mapping not monotonic",
			zap.Error(err),
			zap.Any("entries", out.CharacterMapping.Inflate()))
	}

	prev := 0
	for i, p := range r.parts {
		if p.EndIndex < prev {
			log.Error("line parts out of order",
				zap.Int("part", i),
				zap.Int("end", p.EndIndex),
				zap.Int("previousEnd", prev))
			break
		}
		prev = p.EndIndex
	}
	if len(r.parts) > 0 && prev != r.length {
		log.Error("line parts do not cover the line",
			zap.Int("end", prev),
			zap.Int("length", r.length))
	}
}
