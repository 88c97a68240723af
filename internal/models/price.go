package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	ErrNotListed = "Token not yet listed on major price tracking services"
	MsgNotListed = "This token may be newly launched and not yet indexed. Data will appear once it’s listed."
)

// PriceSnapshot is the current-price payload. Price is null only when no
// upstream source had usable data, in which case Error and Message say why.
type PriceSnapshot struct {
	Price           decimal.NullDecimal `json:"price"`
	Change24h       decimal.NullDecimal `json:"change24h"`
	Volume24h       decimal.NullDecimal `json:"volume24h"`
	MarketCap       decimal.NullDecimal `json:"marketCap"`
	LastUpdated     time.Time           `json:"lastUpdated"`
	Source          string              `json:"source,omitempty"`
	TokenID         string              `json:"tokenId,omitempty"`
	Error           string              `json:"error,omitempty"`
	Message         string              `json:"message,omitempty"`
	ContractAddress string              `json:"contractAddress,omitempty"`
}

// Unlisted builds the "no data" snapshot for the given contract address.
func Unlisted(contractAddress string, at time.Time) PriceSnapshot {
	return PriceSnapshot{
		LastUpdated:     at.UTC(),
		Error:           ErrNotListed,
		Message:         MsgNotListed,
		ContractAddress: contractAddress,
	}
}

func (s PriceSnapshot) Listed() bool { return s.Price.Valid }

// Known returns a non-null decimal, using zero when the provider omitted the field.
func Known(d decimal.NullDecimal) decimal.NullDecimal {
	if d.Valid {
		return d
	}
	return decimal.NewNullDecimal(decimal.Zero)
}
