package secrets

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccessor struct {
	names  []string
	values map[string]string
}

func (f *fakeAccessor) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.names = append(f.names, req.Name)
	v, ok := f.values[req.Name]
	if !ok {
		return nil, errors.New("not found")
	}
	return &secretmanagerpb.AccessSecretVersionResponse{Payload: &secretmanagerpb.SecretPayload{Data: []byte(v)}}, nil
}

func (f *fakeAccessor) Close() error { return nil }

func TestResolvePlainValue(t *testing.T) {
	f := &fakeAccessor{}
	r := &Resolver{client: f, projectID: "proj"}

	v, err := r.Resolve(context.Background(), "sk_test_123")
	require.NoError(t, err)
	assert.Equal(t, "sk_test_123", v)
	assert.Empty(t, f.names)
}

func TestResolveReference(t *testing.T) {
	f := &fakeAccessor{values: map[string]string{
		"projects/proj/secrets/stripe-key/versions/latest": "sk_live_abc\n",
	}}
	r := &Resolver{client: f, projectID: "proj"}

	v, err := r.Resolve(context.Background(), "sm://stripe-key")
	require.NoError(t, err)
	assert.Equal(t, "sk_live_abc", v)

	_, err = r.Resolve(context.Background(), "sm://missing")
	assert.Error(t, err)
}

func TestNewResolverRequiresProject(t *testing.T) {
	_, err := NewResolver(context.Background(), "")
	assert.Error(t, err)
}
