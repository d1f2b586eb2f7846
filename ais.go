package qef

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// AIS statements come from fund providers in loosely standardized JSON
// documents: numeric rates may be encoded as JSON numbers or as strings
// (providers quote them to keep all the digits). Fields are therefore read
// with jsonpath and coerced leniently instead of strict struct decoding.
//
//	{
//	  "taxYear": 2024,
//	  "fund": {
//	    "ticker": "XEQT",
//	    "name": "iShares Core Equity ETF Portfolio",
//	    "earningsPerDayPerShare": "0.0003080775",
//	    "gainsPerDayPerShare": "0.0004661617",
//	    "distributionsPerShare": "0.4498954722"
//	  },
//	  "underlyingFunds": [
//	    {"ticker": "XIC", "name": "...", "earningsPerDayPerShare": "...", "gainsPerDayPerShare": "..."}
//	  ]
//	}

// DecodeAISData reads an AIS document from r.
func DecodeAISData(r io.Reader) (*AISData, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid AIS document: %w", err)
	}

	year, err := jInt(jobj, "$.taxYear")
	if err != nil {
		return nil, err
	}

	ais := &AISData{TaxYear: year}
	if ais.Ticker, err = jString(jobj, "$.fund.ticker"); err != nil {
		return nil, err
	}
	if ais.Name, err = jString(jobj, "$.fund.name"); err != nil {
		return nil, err
	}
	if ais.EarningsRate, err = jDecimal(jobj, "$.fund.earningsPerDayPerShare"); err != nil {
		return nil, err
	}
	if ais.GainsRate, err = jDecimal(jobj, "$.fund.gainsPerDayPerShare"); err != nil {
		return nil, err
	}
	if ais.DistributionsPerShare, err = jDecimal(jobj, "$.fund.distributionsPerShare"); err != nil {
		return nil, err
	}

	junder, err := jsonpath.Get("$.underlyingFunds", jobj)
	if err != nil {
		// No underlying funds block: the fund holds its assets directly.
		return ais, nil
	}
	jlist, ok := junder.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid AIS document: underlyingFunds is not a list")
	}
	for i, jfund := range jlist {
		var u UnderlyingFund
		if u.Ticker, err = jString(jfund, "$.ticker"); err != nil {
			return nil, fmt.Errorf("underlying fund #%d: %w", i, err)
		}
		if u.Name, err = jString(jfund, "$.name"); err != nil {
			return nil, fmt.Errorf("underlying fund #%d: %w", i, err)
		}
		if u.EarningsRate, err = jDecimal(jfund, "$.earningsPerDayPerShare"); err != nil {
			return nil, fmt.Errorf("underlying fund #%d: %w", i, err)
		}
		if u.GainsRate, err = jDecimal(jfund, "$.gainsPerDayPerShare"); err != nil {
			return nil, fmt.Errorf("underlying fund #%d: %w", i, err)
		}
		ais.Underlying = append(ais.Underlying, u)
	}
	return ais, nil
}

// EncodeAISData writes an AIS document to w, rates quoted to preserve digits.
func EncodeAISData(w io.Writer, ais *AISData) error {
	type jfund struct {
		Ticker   string `json:"ticker"`
		Name     string `json:"name"`
		Earnings string `json:"earningsPerDayPerShare"`
		Gains    string `json:"gainsPerDayPerShare"`
	}
	doc := struct {
		TaxYear  int `json:"taxYear"`
		YearDays int `json:"yearDays"`
		Fund     struct {
			jfund
			Distributions string `json:"distributionsPerShare"`
		} `json:"fund"`
		Underlying []jfund `json:"underlyingFunds,omitempty"`
	}{TaxYear: ais.TaxYear, YearDays: ais.YearDays()}

	doc.Fund.jfund = jfund{Ticker: ais.Ticker, Name: ais.Name,
		Earnings: ais.EarningsRate.String(), Gains: ais.GainsRate.String()}
	doc.Fund.Distributions = ais.DistributionsPerShare.String()
	for _, u := range ais.Underlying {
		doc.Underlying = append(doc.Underlying, jfund{Ticker: u.Ticker, Name: u.Name,
			Earnings: u.EarningsRate.String(), Gains: u.GainsRate.String()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// jString reads one string by jsonpath.
func jString(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error reading AIS %q: %w", path, err)
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("error reading AIS %q: not a string: %v", path, jval)
	}
	return s, nil
}

// jInt reads one integer by jsonpath.
func jInt(jobj any, path string) (int, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error reading AIS %q: %w", path, err)
	}
	f, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("error reading AIS %q: not a number: %v", path, jval)
	}
	return int(f), nil
}

// jDecimal reads one decimal by jsonpath, accepting both a JSON number and
// a quoted decimal string.
func jDecimal(jobj any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error reading AIS %q: %w", path, err)
	}
	switch v := jval.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("error reading AIS %q: %w", path, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("error reading AIS %q: not a number: %v", path, jval)
	}
}
