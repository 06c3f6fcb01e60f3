package utxo

import "github.com/btcsuite/btcd/chaincfg"

// coinParams carries the three address-encoding parameters a UTXO
// chain needs: the legacy P2PKH version byte, the P2SH version byte,
// and the bech32 human-readable prefix for native segwit (empty for
// chains that don't support it).
type coinParams struct {
	pubKeyHashAddrID byte
	scriptHashAddrID byte
	bech32HRP        string
	forkID           bool // Bitcoin Cash style SIGHASH_FORKID requirement
}

// paramsByCoin mirrors internal/address's per-chain version-byte tables;
// kept separate because txscript needs a full chaincfg.Params, not
// just the raw bytes.
var paramsByCoin = map[string]coinParams{
	"bitcoin":          {0x00, 0x05, "bc", false},
	"litecoin":         {0x30, 0x32, "ltc", false},
	"dogecoin":         {0x1E, 0x16, "", false},
	"dash":             {0x4C, 0x10, "", false},
	"groestlcoin":      {0x24, 0x05, "grs", false},
	"bitcoincash":      {0x00, 0x05, "", true},
	"zcash":            {0x1C, 0xBA, "", false}, // display-layer byte only; real t-addr encoding is two bytes
	"horizen":          {0x20, 0x89, "", false},
	"bitcoindiamond":   {0x00, 0x05, "", false},
}

func lookupParams(coinID string) (coinParams, *chaincfg.Params) {
	p, ok := paramsByCoin[coinID]
	if !ok {
		p = paramsByCoin["bitcoin"]
	}
	cfg := chaincfg.MainNetParams
	cfg.PubKeyHashAddrID = p.pubKeyHashAddrID
	cfg.ScriptHashAddrID = p.scriptHashAddrID
	cfg.Bech32HRPSegwit = p.bech32HRP
	return p, &cfg
}
