// Command coldsigner is the air-gapped signing worker's process
// entrypoint: read one JSON request from stdin, dispatch it, write one
// JSON response to stdout on success or stderr on failure, exit.
package main

import (
	"io"
	"os"

	"github.com/coldsigner/core/internal/chains/cardano"
	"github.com/coldsigner/core/internal/chains/cosmos"
	"github.com/coldsigner/core/internal/chains/evm"
	"github.com/coldsigner/core/internal/chains/other"
	"github.com/coldsigner/core/internal/chains/polkadot"
	"github.com/coldsigner/core/internal/chains/solana"
	"github.com/coldsigner/core/internal/chains/tron"
	"github.com/coldsigner/core/internal/chains/utxo"
	"github.com/coldsigner/core/internal/clog"
	"github.com/coldsigner/core/internal/dispatch"
	"github.com/coldsigner/core/internal/registry"
	"github.com/coldsigner/core/internal/request"
	"github.com/coldsigner/core/internal/signer"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr))
}

func run(in io.Reader, out, errOut io.Writer) int {
	defer clog.Sync()

	body, err := io.ReadAll(in)
	if err != nil {
		writeErrorf(errOut, "", signer.Wrap(signer.KindInputParseError, err, "failed reading request stream"))
		return 1
	}

	req, err := request.Decode(body)
	if err != nil {
		writeErrorf(errOut, "", err)
		return 1
	}

	reg, err := loadRegistry()
	if err != nil {
		writeErrorf(errOut, req.Command, err)
		return 1
	}

	d := dispatch.New(chainFactories())

	stdout, stderr, code := request.Handle(req, reg, d)
	if len(stdout) > 0 {
		_, _ = out.Write(stdout)
	}
	if len(stderr) > 0 {
		_, _ = errOut.Write(stderr)
	}
	return code
}

// loadRegistry prefers a registry document located next to the binary
// (§6); the embedded copy is the fallback so the worker still starts
// when that external file is absent.
func loadRegistry() (*registry.Registry, error) {
	exe, err := os.Executable()
	if err == nil {
		sidecar := exe + ".coins.json"
		if data, rerr := os.ReadFile(sidecar); rerr == nil {
			return registry.Load(data)
		}
	}
	return registry.LoadEmbedded()
}

func chainFactories() map[string]signer.Factory {
	return map[string]signer.Factory{
		"utxo":     utxo.New,
		"evm":      evm.New,
		"cosmos":   cosmos.New,
		"polkadot": polkadot.New,
		"solana":   solana.New,
		"cardano":  cardano.New,
		"tron":     tron.New,
		"algorand": other.NewAlgorand,
		"aptos":    other.NewAptos,
		"hedera":   other.NewHedera,
		"stellar":  other.NewStellar,
		"tezos":    other.NewTezos,
		"near":     other.NewNEAR,
		"sui":      other.NewSui,
		"ton":      other.NewTON,
		"xrp":      other.NewXRP,
		"nervos":   other.NewNervos,
		"filecoin": other.NewFilecoin,
		"icp":      other.NewICP,
	}
}

func writeErrorf(errOut io.Writer, command request.Command, err error) {
	_, _ = errOut.Write(request.EncodeError(command, err))
}
