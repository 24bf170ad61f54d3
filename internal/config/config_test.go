package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvOverridesFlags(t *testing.T) {
	t.Setenv("DATABASE_URI", "postgres://env")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MINIO_BUCKET", "evidence")
	t.Setenv("JWT_TTL", "2h")

	conf, err := load([]string{"-a", ":9090", "-d", "postgres://flag", "-s", "flag-secret"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", conf.RunAddress)
	assert.Equal(t, "postgres://env", conf.DatabaseDSN)
	assert.Equal(t, "env-secret", conf.JWTSecret)
	assert.Equal(t, "internal/db/migrations", conf.MigrationsDir)
	assert.Equal(t, 2*time.Hour, conf.JWTTTL)
	assert.Equal(t, 10*time.Minute, conf.OTPTTL)
	assert.Equal(t, "smtp.example.com", conf.SMTP.Host)
	assert.Equal(t, 587, conf.SMTP.Port)
	assert.Equal(t, "evidence", conf.MinIO.Bucket)
	assert.Equal(t, uint(4), conf.DispatchWorkers)
	assert.False(t, conf.IsDevelopment())
}

func TestLoadFromFlags(t *testing.T) {
	conf, err := load([]string{"-d", "postgres://flag", "-s", "flag-secret"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag", conf.DatabaseDSN)
	assert.Equal(t, "flag-secret", conf.JWTSecret)
	assert.Equal(t, "localhost:8080", conf.RunAddress)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "no dsn", args: []string{"-s", "secret"}},
		{name: "no secret", args: []string{"-d", "postgres://flag"}},
		{name: "negative ttl", env: map[string]string{"JWT_TTL": "-1m"}, args: []string{"-d", "x", "-s", "y"}},
		{name: "unknown flag", args: []string{"-z"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := load(tc.args)
			assert.Error(t, err)
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", EnvDevelopment)
	conf, err := load([]string{"-d", "x", "-s", "y"})
	require.NoError(t, err)
	assert.True(t, conf.IsDevelopment())
}
