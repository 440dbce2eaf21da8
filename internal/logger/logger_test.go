package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("Development config", func(t *testing.T) {
		Init("development")
		require.NotNil(t, log)
	})

	t.Run("Production config", func(t *testing.T) {
		Init("production")
		require.NotNil(t, log)
	})
}

func TestL_LazyInit(t *testing.T) {
	log = nil
	l := L()
	assert.NotNil(t, l)
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFrom(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFrom(ctx))
}

func TestFromCtx(t *testing.T) {
	Init("development")

	t.Run("Without request id returns base logger", func(t *testing.T) {
		l := FromCtx(context.Background())
		assert.NotNil(t, l)
	})

	t.Run("With request id returns child logger", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-456")
		l := FromCtx(ctx)
		assert.NotNil(t, l)
	})
}
