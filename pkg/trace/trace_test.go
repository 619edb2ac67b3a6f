package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestTracerBuilderStartAndEnd(t *testing.T) {
	b := Tracer("test")
	scope := b.Start(context.Background(), "op")
	assert.NotNil(t, scope)
	assert.NotNil(t, scope.Ctx)
	scope.WithAttrs(attribute.String("tenant", "wuff")).End()
}

func TestSpanScopeNilSafe(t *testing.T) {
	var s *SpanScope
	assert.NotPanics(t, func() {
		s.WithAttrs(attribute.Bool("ok", true))
		s.End()
	})
}
