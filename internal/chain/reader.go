// Package chain reads ads from the Swap24Market contract. It is read-only:
// the frontend signs and submits ad postings, then reports them to the ledger.
package chain

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

//go:embed Swap24Market.abi.json
var marketABI []byte

var (
	ErrInvalidAddress = errors.New("invalid contract address")
	ErrInvalidAdID    = errors.New("invalid ad id")
)

// ContractCaller is the slice of ethclient the reader needs.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Ad is an on-chain ad. Integer fields are decimal strings so they survive JSON clients.
type Ad struct {
	ID            string `json:"id"`
	Seller        string `json:"seller"`
	Token         string `json:"token"`
	TokenAmount   string `json:"tokenAmount"`
	PriceInNaira  string `json:"priceInNaira"`
	PaymentMethod string `json:"paymentMethod"`
	Rate          string `json:"rate"`
	Active        bool   `json:"active"`
}

// ContractInfo is what the frontend needs to talk to the contract directly.
type ContractInfo struct {
	Address string          `json:"address"`
	ABI     json.RawMessage `json:"abi"`
}

// adTuple matches the ABI tuple; field names follow abi.ToCamelCase of the components.
type adTuple struct {
	Id            *big.Int
	Seller        common.Address
	Token         common.Address
	TokenAmount   *big.Int
	PriceInNaira  *big.Int
	PaymentMethod string
	Rate          *big.Int
	Active        bool
}

func (t adTuple) view() Ad {
	return Ad{
		ID:            bigString(t.Id),
		Seller:        t.Seller.Hex(),
		Token:         t.Token.Hex(),
		TokenAmount:   bigString(t.TokenAmount),
		PriceInNaira:  bigString(t.PriceInNaira),
		PaymentMethod: t.PaymentMethod,
		Rate:          bigString(t.Rate),
		Active:        t.Active,
	}
}

type Reader struct {
	caller  ContractCaller
	address common.Address
	abi     abi.ABI
	closer  func()
	log     *zap.Logger
}

// Dial connects to rpcURL and binds the reader to the contract at address.
func Dial(ctx context.Context, rpcURL, address string) (*Reader, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	r, err := NewReader(client, address)
	if err != nil {
		client.Close()
		return nil, err
	}
	r.closer = client.Close
	return r, nil
}

func NewReader(caller ContractCaller, address string) (*Reader, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	parsed, err := abi.JSON(bytes.NewReader(marketABI))
	if err != nil {
		return nil, fmt.Errorf("parse market abi: %w", err)
	}
	return &Reader{
		caller:  caller,
		address: common.HexToAddress(address),
		abi:     parsed,
		log:     logger.Named("chain"),
	}, nil
}

func (r *Reader) Close() {
	if r.closer != nil {
		r.closer()
	}
}

func (r *Reader) Info() ContractInfo {
	return ContractInfo{Address: r.address.Hex(), ABI: json.RawMessage(marketABI)}
}

// ReadAd calls getAd(id). id is a base-10 integer that fits a uint256.
func (r *Reader) ReadAd(ctx context.Context, id string) (*Ad, error) {
	n, ok := new(big.Int).SetString(id, 10)
	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAdID, id)
	}

	out, err := r.call(ctx, "getAd", n)
	if err != nil {
		return nil, err
	}
	tuple := *abi.ConvertType(out[0], new(adTuple)).(*adTuple)
	ad := tuple.view()
	return &ad, nil
}

// ReadAllAds calls getAllAds().
func (r *Reader) ReadAllAds(ctx context.Context) ([]Ad, error) {
	out, err := r.call(ctx, "getAllAds")
	if err != nil {
		return nil, err
	}
	tuples := *abi.ConvertType(out[0], new([]adTuple)).(*[]adTuple)

	ads := make([]Ad, 0, len(tuples))
	for _, t := range tuples {
		ads = append(ads, t.view())
	}
	return ads, nil
}

func (r *Reader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	input, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	data, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &r.address, Data: input}, nil)
	if err != nil {
		r.log.Error("contract call failed", zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	out, err := r.abi.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("unpack %s: empty result", method)
	}
	return out, nil
}

func bigString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
