package logging

import (
	"encoding/json"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// ScalyrEncoder is a custom Zap encoder that outputs Scalyr-compatible JSON format
type ScalyrEncoder struct {
	zapcore.Encoder
	config zapcore.EncoderConfig
	// context fields added through logger.With
	context *zapcore.MapObjectEncoder
}

// NewScalyrEncoder creates a new Scalyr-compatible encoder
func NewScalyrEncoder(config zapcore.EncoderConfig) zapcore.Encoder {
	return &ScalyrEncoder{
		Encoder: zapcore.NewJSONEncoder(config),
		config:  config,
		context: zapcore.NewMapObjectEncoder(),
	}
}

// EncodeEntry encodes a log entry in Scalyr-compatible format
func (e *ScalyrEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	logObj := map[string]interface{}{
		"timestamp": entry.Time.Format(time.RFC3339Nano),
		"level":     entry.Level.String(),
		"message":   entry.Message,
		"logger":    entry.LoggerName,
	}

	if entry.Caller.Defined {
		logObj["file"] = entry.Caller.File
		logObj["line"] = entry.Caller.Line
		logObj["function"] = entry.Caller.Function
	}

	if entry.Stack != "" {
		logObj["stack"] = entry.Stack
	}

	for k, v := range e.context.Fields {
		logObj[k] = v
	}

	fieldEnc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(fieldEnc)
	}
	for k, v := range fieldEnc.Fields {
		logObj[k] = v
	}

	data, err := json.Marshal(logObj)
	if err != nil {
		return nil, err
	}

	buf := bufferPool.Get()
	buf.AppendBytes(data)
	buf.AppendString(zapcore.DefaultLineEnding)
	return buf, nil
}

// AddString keeps context fields so they survive EncodeEntry.
func (e *ScalyrEncoder) AddString(key, value string) {
	e.context.AddString(key, value)
	e.Encoder.AddString(key, value)
}

func (e *ScalyrEncoder) AddInt64(key string, value int64) {
	e.context.AddInt64(key, value)
	e.Encoder.AddInt64(key, value)
}

func (e *ScalyrEncoder) AddBool(key string, value bool) {
	e.context.AddBool(key, value)
	e.Encoder.AddBool(key, value)
}

// Clone creates a copy of the encoder
func (e *ScalyrEncoder) Clone() zapcore.Encoder {
	ctx := zapcore.NewMapObjectEncoder()
	for k, v := range e.context.Fields {
		ctx.Fields[k] = v
	}

	return &ScalyrEncoder{
		Encoder: e.Encoder.Clone(),
		config:  e.config,
		context: ctx,
	}
}
