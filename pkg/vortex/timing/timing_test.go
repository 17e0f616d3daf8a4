package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() Config {
	return Config{
		EnableTimeoutProtection: true,
		ConnectionTimeoutMS:     30000,
		IdleTimeoutMS:           5000,
		HeaderTimeoutMS:         10000,
		BodyTimeoutMS:           60000,
		BodyReadThresholdPct:    10,
	}
}

func TestEvaluateAllowedWhenFresh(t *testing.T) {
	tm := ConnectionTiming{StartTimeMS: 1000, LastReadTimeMS: 1000, ExpectedBodyLength: -1}
	assert.Equal(t, Allowed, Evaluate(tm, baseConfig(), 1500))
}

func TestEvaluateDisabledAlwaysAllowed(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableTimeoutProtection = false
	tm := ConnectionTiming{StartTimeMS: 0, LastReadTimeMS: 0, ExpectedBodyLength: -1}
	assert.Equal(t, Allowed, Evaluate(tm, cfg, 999999999))
}

func TestEvaluateConnectionTimeoutTakesPriority(t *testing.T) {
	tm := ConnectionTiming{StartTimeMS: 0, LastReadTimeMS: 0, ExpectedBodyLength: -1}
	assert.Equal(t, ConnectionTimeout, Evaluate(tm, baseConfig(), 40000))
}

func TestEvaluateIdleTimeout(t *testing.T) {
	tm := ConnectionTiming{StartTimeMS: 0, LastReadTimeMS: 0, ExpectedBodyLength: -1}
	assert.Equal(t, IdleTimeout, Evaluate(tm, baseConfig(), 6000))
}

func TestEvaluateHeaderProcessingTimeout(t *testing.T) {
	tm := ConnectionTiming{StartTimeMS: 0, LastReadTimeMS: 10000, HeadersComplete: false, ExpectedBodyLength: -1}
	assert.Equal(t, ProcessingTimeout, Evaluate(tm, baseConfig(), 11000))
}

func TestEvaluateBodyStallSlowloris(t *testing.T) {
	tm := ConnectionTiming{
		StartTimeMS: 0, LastReadTimeMS: 60000, HeadersComplete: true,
		ExpectedBodyLength: 1000, ReceivedBodyLength: 50,
	}
	// Raise the connection timeout above the body deadline so rule 1
	// does not fire first at now=61000.
	cfg := baseConfig()
	cfg.ConnectionTimeoutMS = 120000
	assert.Equal(t, ProcessingTimeout, Evaluate(tm, cfg, 61000))
}

func TestEvaluateBodyProgressPastThresholdIsAllowed(t *testing.T) {
	tm := ConnectionTiming{
		StartTimeMS: 0, LastReadTimeMS: 60000, HeadersComplete: true,
		ExpectedBodyLength: 1000, ReceivedBodyLength: 500,
	}
	cfg := baseConfig()
	cfg.ConnectionTimeoutMS = 120000
	assert.Equal(t, Allowed, Evaluate(tm, cfg, 61000))
}
