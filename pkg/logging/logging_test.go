package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_DoesNotPanic(t *testing.T) {
	// Test JSON mode (default)
	Init(false, false)
	log := L()
	log.Info().Msg("test json info")
	log.Debug().Msg("test json debug (should not appear at info level)")

	// Test debug mode
	Init(true, false)
	log = L()
	log.Debug().Msg("test json debug (should appear)")

	// Test pretty mode
	Init(false, true)
	log = L()
	log.Info().Msg("test pretty info")
	if !IsPrettyMode() {
		t.Error("IsPrettyMode = false after Init(_, true)")
	}

	Init(false, false)
	if IsPrettyMode() {
		t.Error("IsPrettyMode = true after Init(_, false)")
	}
}

func TestWithPhase(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	log := WithPhase("pack")
	log.Info().Msg("test message")

	if !bytes.Contains(buf.Bytes(), []byte(`"phase":"pack"`)) {
		t.Errorf("expected phase field in output, got: %s", buf.String())
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	customLogger := zerolog.New(&buf).With().Str("custom", "field").Logger()
	SetLogger(customLogger)

	L().Info().Msg("test")

	if !bytes.Contains(buf.Bytes(), []byte(`"custom":"field"`)) {
		t.Errorf("expected custom field in output, got: %s", buf.String())
	}

	// Reset to default for other tests
	Init(false, false)
}
