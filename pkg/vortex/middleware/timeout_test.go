package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

func TestTimeoutAllowsFastHandler(t *testing.T) {
	handler := Timeout(50 * time.Millisecond)(func(c *vortex.Context) error {
		return c.Text(200, "fast")
	})

	c := newTestContext("GET", "/fast")
	assert.NoError(t, handler(c))
	assert.Equal(t, 200, c.Response.Status)
}

func TestTimeoutRejectsSlowHandler(t *testing.T) {
	handler := Timeout(10 * time.Millisecond)(func(c *vortex.Context) error {
		time.Sleep(100 * time.Millisecond)
		return c.Text(200, "slow")
	})

	c := newTestContext("GET", "/slow")
	assert.NoError(t, handler(c))
	assert.Equal(t, 503, c.Response.Status)
}
