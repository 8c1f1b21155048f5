package database

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client, err := ConnectRedis(context.Background(), m.Addr(), "", 0, time.Second)
	require.NoError(t, err)
	require.NoError(t, client.Close())
}

func TestConnectRedisUnreachable(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	addr := m.Addr()
	m.Close()

	_, err = ConnectRedis(context.Background(), addr, "", 0, 200*time.Millisecond)
	require.Error(t, err)
}
