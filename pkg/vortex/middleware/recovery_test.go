package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

func TestRecoveryConvertsPanicToError(t *testing.T) {
	handler := Recovery()(func(c *vortex.Context) error {
		panic("kaboom")
	})

	err := handler(newTestContext("GET", "/panics"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRecoveryPassesThroughNormalReturn(t *testing.T) {
	handler := Recovery()(func(c *vortex.Context) error {
		return c.Text(200, "fine")
	})

	assert.NoError(t, handler(newTestContext("GET", "/ok")))
}
