package pendingvalidation

import (
	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
)

// verifyPreviousSignature is the universal check every transaction class
// shares (spec.md §4.2).
func verifyPreviousSignature(tx inter.Transaction) error {
	if err := tx.VerifyPreviousSignature(); err != nil {
		return newError(InvalidPreviousSignature, err.Error())
	}
	return nil
}

func verifyContentSize(tx inter.Transaction, ctx *Context) error {
	if len(tx.Data.Content) >= ctx.maxContentSize() {
		return newError(InvalidContentSize, "content exceeds maximum size")
	}
	return nil
}

func verifyContractParses(tx inter.Transaction, ctx *Context) error {
	if tx.Data.Code == "" || ctx.ContractParser == nil {
		return nil
	}
	if err := ctx.ContractParser(tx.Data.Code); err != nil {
		return newError(ContractParseError, err.Error())
	}
	return nil
}

// verifyNetworkChainContinuity enforces that a "network" transaction class
// (spec.md §4.2, §3) builds on the recognized genesis address for that
// chain.
func verifyNetworkChainContinuity(tx inter.Transaction, ctx *Context) error {
	if !tx.Type.IsNetworkType() {
		return nil
	}
	genesis, ok := ctx.NetworkChainGenesis[tx.Type]
	if !ok {
		return nil
	}
	previous := crypto.DeriveAddress(tx.PreviousPublicKey, genesis.HashAlgo)
	if !previous.Equal(genesis) {
		return newError(InvalidNetworkChain, "previous address does not resolve to the network chain genesis")
	}
	return nil
}
