package logger

import (
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/actions"
)

var bufferPool = buffer.NewPool()

// workflowEncoder renders one workflow command per entry:
//
//	::debug::message
//	message
//	::warning::message
//	::error::message
//
// Structured fields are appended to the message as a JSON object.
type workflowEncoder struct {
	zapcore.Encoder
}

func newWorkflowEncoder() zapcore.Encoder {
	return &workflowEncoder{Encoder: zapcore.NewJSONEncoder(zapcore.EncoderConfig{})}
}

func (e *workflowEncoder) Clone() zapcore.Encoder {
	return &workflowEncoder{Encoder: e.Encoder.Clone()}
}

func (e *workflowEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	encoded, err := e.Encoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return nil, err
	}
	extra := strings.TrimSpace(encoded.String())
	encoded.Free()

	msg := ent.Message
	if extra != "" && extra != "{}" {
		msg += " " + extra
	}

	line := bufferPool.Get()
	if command := commandFor(ent.Level); command != "" {
		line.AppendString("::" + command + "::")
		msg = actions.EscapeData(msg)
	}
	line.AppendString(msg)
	line.AppendString(zapcore.DefaultLineEnding)
	return line, nil
}

func commandFor(level zapcore.Level) string {
	switch {
	case level == zapcore.DebugLevel:
		return "debug"
	case level == zapcore.WarnLevel:
		return "warning"
	case level >= zapcore.ErrorLevel:
		return "error"
	default:
		return ""
	}
}
