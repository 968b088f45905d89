package server

import (
	"context"
	"testing"

	"github.com/NERVsystems/navermcp/pkg/naver"
	"github.com/NERVsystems/navermcp/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopClient struct{}

func (nopClient) Geocode(context.Context, naver.GeocodeParams) (*naver.GeocodeResponse, error) {
	return &naver.GeocodeResponse{}, nil
}

func (nopClient) SearchLocal(context.Context, naver.LocalSearchParams) (*naver.LocalSearchResponse, error) {
	return &naver.LocalSearchResponse{}, nil
}

func (nopClient) Directions(context.Context, naver.DirectionsParams) (*naver.DirectionsResponse, error) {
	return &naver.DirectionsResponse{}, nil
}

func TestNewServer(t *testing.T) {
	s, err := NewServer(Options{Logger: testutil.DiscardLogger(), Client: nopClient{}})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NotNil(t, s.MCPServer())
}

func TestNewServerFromConfig(t *testing.T) {
	s, err := NewServer(Options{
		Logger: testutil.DiscardLogger(),
		Config: naver.Config{
			MapsClientID:       "maps-id",
			MapsClientSecret:   "maps-secret",
			SearchClientID:     "search-id",
			SearchClientSecret: "search-secret",
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNewServerMissingCredentials(t *testing.T) {
	s, err := NewServer(Options{Logger: testutil.DiscardLogger()})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, naver.ErrConfig)
}
