package dispatch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldsigner/core/internal/signer"
)

type stubChain struct {
	family string
	calls  int
}

func (s *stubChain) Family() string { return s.family }
func (s *stubChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": func(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
			s.calls++
			return &signer.Result{Encoded: "ok"}, nil
		},
	}
}

func TestResolveByExactCoinIDBeforeFamily(t *testing.T) {
	d := New(map[string]signer.Factory{
		"ethereum": func() signer.Chain { return &stubChain{family: "ethereum-specific"} },
		"evm":      func() signer.Chain { return &stubChain{family: "evm"} },
	})

	chain, err := d.Resolve("ethereum", "evm")
	require.NoError(t, err)
	assert.Equal(t, "ethereum-specific", chain.Family())
}

func TestResolveFallsBackToFamily(t *testing.T) {
	d := New(map[string]signer.Factory{
		"evm": func() signer.Chain { return &stubChain{family: "evm"} },
	})

	chain, err := d.Resolve("bsc", "evm")
	require.NoError(t, err)
	assert.Equal(t, "evm", chain.Family())
}

func TestResolveUnknownChainFails(t *testing.T) {
	d := New(map[string]signer.Factory{})
	_, err := d.Resolve("doesnotexist", "doesnotexist")
	require.Error(t, err)
	se, ok := signer.As(err)
	require.True(t, ok)
	assert.Equal(t, signer.KindUnsupportedChain, se.Kind)
}

func TestDispatchUnsupportedMethod(t *testing.T) {
	d := New(map[string]signer.Factory{
		"evm": func() signer.Chain { return &stubChain{family: "evm"} },
	})
	chain, err := d.Resolve("evm", "evm")
	require.NoError(t, err)

	_, err = d.Dispatch(chain, "signTokenTransfer", nil, 60)
	require.Error(t, err)
	se, ok := signer.As(err)
	require.True(t, ok)
	assert.Equal(t, signer.KindUnsupportedMethod, se.Kind)
}

func TestFactoryInvokedOnlyOncePerFamily(t *testing.T) {
	builds := 0
	d := New(map[string]signer.Factory{
		"evm": func() signer.Chain {
			builds++
			return &stubChain{family: "evm"}
		},
	})

	_, err := d.Resolve("ethereum", "evm")
	require.NoError(t, err)
	_, err = d.Resolve("bsc", "evm")
	require.NoError(t, err)

	assert.Equal(t, 1, builds, "the signer instance must be cached for the worker's lifetime")
}
