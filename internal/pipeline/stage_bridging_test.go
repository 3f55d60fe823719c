package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func TestBridgeInsertsConnectorBetweenCloseEndpoints(t *testing.T) {
	pc := testContextWithEngine(&fakeEngine{simple: true})
	pc.Cfg.Tolerance.BridgingEnabled = true
	pc.Cfg.Tolerance.TrailBridgingToleranceM = 20

	a := &entities.Trail{
		UUID: "a", Name: "a",
		Geom2D: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}}),
	}
	b := &entities.Trail{
		UUID: "b", Name: "b",
		Geom2D: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0.0100001}, {Lng: 0, Lat: 0.02}}),
	}

	out, _, err := Bridge(context.Background(), pc, []*entities.Trail{a, b})
	require.NoError(t, err)
	require.Len(t, out, 3, "expected one synthetic connector trail inserted")
	assert.True(t, out[2].IsConnector)
}

func TestBridgeNoOpWhenDisabled(t *testing.T) {
	pc := testContextWithEngine(&fakeEngine{simple: true})
	pc.Cfg.Tolerance.BridgingEnabled = false

	trails := []*entities.Trail{validTrail("a"), validTrail("b")}
	out, _, err := Bridge(context.Background(), pc, trails)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
