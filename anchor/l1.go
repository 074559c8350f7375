// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package anchor

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/starkproof/starkproof/felt"
)

// 4-byte selectors of the core contract's read methods.
var (
	selStateRoot        = crypto.Keccak256([]byte("stateRoot()"))[:4]
	selStateBlockNumber = crypto.Keccak256([]byte("stateBlockNumber()"))[:4]
)

// ContractCaller is the slice of the Ethereum client the anchor needs;
// *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// L1Source reads the rollup state root and block number attested by the core
// contract on the Ethereum host chain. Each read is one eth_call against the
// latest host block.
type L1Source struct {
	caller   ContractCaller
	contract common.Address
}

// NewL1Source returns an anchor reading from the core contract at addr
// through caller.
func NewL1Source(caller ContractCaller, addr common.Address) *L1Source {
	return &L1Source{caller: caller, contract: addr}
}

// DialL1Source connects to an Ethereum JSON-RPC endpoint and anchors on the
// core contract at addr.
func DialL1Source(ctx context.Context, rawurl string, addr common.Address) (*L1Source, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("anchor: dialing %s: %w", rawurl, err)
	}
	return NewL1Source(client, addr), nil
}

func (s *L1Source) CurrentRoot(ctx context.Context) (felt.Element, error) {
	word, err := s.call(ctx, selStateRoot)
	if err != nil {
		return felt.Element{}, err
	}
	root, err := felt.FromBytes(word)
	if err != nil {
		return felt.Element{}, fmt.Errorf("anchor: core contract returned a non-field state root: %w", err)
	}
	return root, nil
}

func (s *L1Source) CurrentBlockNumber(ctx context.Context) (int64, error) {
	word, err := s.call(ctx, selStateBlockNumber)
	if err != nil {
		return 0, err
	}
	n := new(big.Int).SetBytes(word)
	if !n.IsInt64() {
		return 0, fmt.Errorf("anchor: core contract returned block number %s out of range", n)
	}
	return n.Int64(), nil
}

func (s *L1Source) call(ctx context.Context, selector []byte) ([]byte, error) {
	out, err := s.caller.CallContract(ctx, ethereum.CallMsg{To: &s.contract, Data: selector}, nil)
	if err != nil {
		return nil, fmt.Errorf("anchor: core contract call: %w", err)
	}
	if len(out) != 32 {
		return nil, fmt.Errorf("anchor: core contract returned %d bytes, want 32", len(out))
	}
	return out, nil
}
