package logctx

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestFromContextDefault(t *testing.T) {
	// A bare context yields the default logger, never a zero value.
	log := FromContext(context.Background())
	log.Info().Msg("does not panic")

	log = FromContext(nil)
	log.Info().Msg("nil context does not panic")
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("run", "test").Logger()

	ctx := WithLogger(context.Background(), logger)
	log := FromContext(ctx)
	log.Info().Msg("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"run":"test"`)) {
		t.Errorf("expected run field, got: %s", buf.String())
	}
}

func TestWithInt(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))
	ctx = WithInt(ctx, "compound", 3)

	log := FromContext(ctx)
	log.Info().Msg("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"compound":3`)) {
		t.Errorf("expected compound field, got: %s", buf.String())
	}
}

func TestWithStr(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))
	ctx = WithStr(ctx, "index_dir", "/data/index")

	log := FromContext(ctx)
	log.Info().Msg("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"index_dir":"/data/index"`)) {
		t.Errorf("expected index_dir field, got: %s", buf.String())
	}
}
