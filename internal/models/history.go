package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryDays = 7

	ErrHistoryUnavailable = "Historical data not available"
	MsgHistoryUnavailable = "This token isn’t indexed yet. History will be available once listed."
)

type HistoryPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
}

// HistoryUnavailable explains why a history request produced no points.
type HistoryUnavailable struct {
	Error           string `json:"error"`
	Message         string `json:"message"`
	ContractAddress string `json:"contractAddress,omitempty"`
}

// HistoryResult is either a series of points or an Unavailable reason.
//
// On the wire a series is a bare JSON array and an unavailable result is an
// object carrying error, message, contractAddress and an empty data array.
// Existing consumers tell the two apart by shape, so both are kept.
type HistoryResult struct {
	Points      []HistoryPoint
	Unavailable *HistoryUnavailable
}

type wrappedHistory struct {
	HistoryUnavailable
	Data []HistoryPoint `json:"data"`
}

func HistorySeries(points []HistoryPoint) HistoryResult {
	if points == nil {
		points = []HistoryPoint{}
	}
	return HistoryResult{Points: points}
}

// HistoryNotIndexed is the unavailable result for an asset with no usable series.
func HistoryNotIndexed(contractAddress string) HistoryResult {
	return HistoryResult{Unavailable: &HistoryUnavailable{
		Error:           ErrHistoryUnavailable,
		Message:         MsgHistoryUnavailable,
		ContractAddress: contractAddress,
	}}
}

func (r HistoryResult) Available() bool { return r.Unavailable == nil }

func (r HistoryResult) MarshalJSON() ([]byte, error) {
	if r.Unavailable != nil {
		return json.Marshal(wrappedHistory{HistoryUnavailable: *r.Unavailable, Data: []HistoryPoint{}})
	}
	points := r.Points
	if points == nil {
		points = []HistoryPoint{}
	}
	return json.Marshal(points)
}

// UnmarshalJSON accepts both wire shapes. A wrapped object without a data
// field decodes to an empty series.
func (r *HistoryResult) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("history: empty payload")
	}

	switch b[0] {
	case '[':
		var points []HistoryPoint
		if err := json.Unmarshal(b, &points); err != nil {
			return fmt.Errorf("history series: %w", err)
		}
		*r = HistorySeries(points)
	case '{':
		var w wrappedHistory
		if err := json.Unmarshal(b, &w); err != nil {
			return fmt.Errorf("history object: %w", err)
		}
		points := w.Data
		if points == nil {
			points = []HistoryPoint{}
		}
		u := w.HistoryUnavailable
		*r = HistoryResult{Points: points, Unavailable: &u}
	default:
		return fmt.Errorf("history: unexpected payload starting with %q", b[0])
	}
	return nil
}
