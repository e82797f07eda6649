package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	ctx := context.Background()

	client, err := ConnectRedis(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = ConnectRedis(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
	assert.NoError(t, client.Set(ctx, "k", "v", 0).Err())

	_, err = ConnectRedis(ctx, "://nope")
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "yamdb", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=yamdb port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
