package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kodik/postcard/pkg/config"
)

func newTestEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "timestamp",
		LevelKey:      "level",
		MessageKey:    "message",
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
}

func TestInitLogger(t *testing.T) {
	restore := ReplaceLogger(nil)
	defer restore()

	cfg := &config.LoggingConfig{
		Level:        "INFO",
		Format:       "json",
		ScalyrFormat: true,
	}

	if err := InitLogger(cfg); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("Expected logger to be initialized")
	}
}

func TestScalyrEncoder(t *testing.T) {
	var buf bytes.Buffer

	core := zapcore.NewCore(NewScalyrEncoder(newTestEncoderConfig()), zapcore.AddSync(&buf), zapcore.InfoLevel)
	logger := zap.New(core).With(zap.String("component", "postcard"), zap.Int64("post_id", 7))

	logger.Info("test message", zap.String("key", "value"), zap.Bool("liked", true))

	var logObj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logObj); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if logObj["message"] != "test message" {
		t.Errorf("Expected message 'test message', got: %v", logObj["message"])
	}
	if logObj["key"] != "value" {
		t.Errorf("Expected field 'key'='value', got: %v", logObj["key"])
	}
	if logObj["liked"] != true {
		t.Errorf("Expected field 'liked'=true, got: %v", logObj["liked"])
	}
	if logObj["component"] != "postcard" {
		t.Errorf("Expected context field 'component', got: %v", logObj["component"])
	}
	if logObj["post_id"] != float64(7) {
		t.Errorf("Expected context field 'post_id'=7, got: %v", logObj["post_id"])
	}
	if _, ok := logObj["timestamp"]; !ok {
		t.Error("Expected 'timestamp' field in log output")
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer

	core := zapcore.NewCore(NewScalyrEncoder(newTestEncoderConfig()), zapcore.AddSync(&buf), zapcore.InfoLevel)
	restore := ReplaceLogger(zap.New(core))
	defer restore()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	FromContext(ctx, "api").Info("traced")

	var logObj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logObj); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if logObj["trace_id"] != traceID.String() {
		t.Errorf("Expected trace_id %s, got: %v", traceID, logObj["trace_id"])
	}
	if logObj["component"] != "api" {
		t.Errorf("Expected component 'api', got: %v", logObj["component"])
	}
}
