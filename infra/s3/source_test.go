package s3

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evload/core/model"
)

func TestConfigValidate(t *testing.T) {
	require.ErrorIs(t, Config{Bucket: "b"}.Validate(), model.ErrConfiguration)
	require.ErrorIs(t, Config{Endpoint: "localhost:9000"}.Validate(), model.ErrConfiguration)
	require.NoError(t, Config{Endpoint: "localhost:9000", Bucket: "b"}.Validate())
}

func TestSourceKey(t *testing.T) {
	s := &Source{Bucket: "profiles"}
	assert.Equal(t, "chg1_dow1_flex1.csv", s.Key("chg1_dow1_flex1.csv"))
	s.Prefix = "v2/"
	assert.Equal(t, "v2/chg1_dow1_flex1.csv", s.Key("chg1_dow1_flex1.csv"))
}

func TestMapError(t *testing.T) {
	err := mapError("b", "k", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	require.ErrorIs(t, err, model.ErrResourceNotFound)
	assert.Contains(t, err.Error(), "s3://b/k")

	err = mapError("b", "k", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404})
	require.ErrorIs(t, err, model.ErrResourceNotFound)

	boom := errors.New("connection reset")
	err = mapError("b", "k", boom)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, model.ErrResourceNotFound)
}

func TestNewSource(t *testing.T) {
	s, err := NewSource(Config{Endpoint: "localhost:9000", Bucket: "profiles", Prefix: "p", Region: "us-east-1"})
	require.NoError(t, err)
	assert.Equal(t, "profiles", s.Bucket)
	assert.NotNil(t, s.Client)
}
