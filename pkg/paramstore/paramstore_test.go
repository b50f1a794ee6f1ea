package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	out *ssm.GetParameterOutput
	err error

	gotName       string
	gotDecryption bool
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.gotName = *in.Name
	f.gotDecryption = *in.WithDecryption
	return f.out, f.err
}

func ptr(s string) *string { return &s }

func TestGetParameter(t *testing.T) {
	api := &fakeSSM{out: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: ptr("/gate/master-key"), Value: ptr("key-material"), Type: types.ParameterTypeSecureString,
	}}}
	c, err := New(api)
	require.NoError(t, err)

	v, err := c.GetParameter(context.Background(), " /gate/master-key ")
	require.NoError(t, err)
	require.Equal(t, "key-material", v)
	require.Equal(t, "/gate/master-key", api.gotName)
	require.True(t, api.gotDecryption)
}

func TestGetParameterErrors(t *testing.T) {
	t.Run("missing value", func(t *testing.T) {
		c, _ := New(&fakeSSM{out: &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: ptr("p")}}})
		_, err := c.GetParameter(context.Background(), "p")
		require.ErrorContains(t, err, "no value")
	})

	t.Run("api error", func(t *testing.T) {
		c, _ := New(&fakeSSM{err: errors.New("boom")})
		_, err := c.GetParameter(context.Background(), "p")
		require.ErrorContains(t, err, "boom")
	})

	t.Run("empty name", func(t *testing.T) {
		c, _ := New(&fakeSSM{})
		_, err := c.GetParameter(context.Background(), "  ")
		require.ErrorContains(t, err, "required")
	})

	t.Run("not initialized", func(t *testing.T) {
		_, err := (&Client{}).GetParameter(context.Background(), "p")
		require.ErrorContains(t, err, "not initialized")
	})
}

func TestNewNilAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
