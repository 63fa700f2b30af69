package loanbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeBook reads records from a stream of JSONL data, decodes each line
// into the matching record struct, and returns a chronologically sorted Book.
func DecodeBook(r io.Reader, currency string) (*Book, error) {
	book := NewBook(currency)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record RecordKind `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		record, err := decodeRecord(identifier.Record, lineBytes)
		if err != nil {
			return nil, err
		}
		if err := book.Append(record); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	book.stableSort()
	return book, nil
}

// decodeRecord unmarshals one line into the record struct matching its kind.
// Amounts travel as decimals on the wire and are lowered to float64 for the
// engine.
func decodeRecord(kind RecordKind, line []byte) (Record, error) {
	switch kind {
	case KindLoan:
		var temp struct {
			ID           string          `json:"id"`
			Name         string          `json:"name"`
			Principal    decimal.Decimal `json:"principal"`
			AnnualRate   decimal.Decimal `json:"annualRate"`
			Taken        MonthIndex      `json:"taken"`
			FirstPayment MonthIndex      `json:"firstPayment"`
			LastPayment  MonthIndex      `json:"lastPayment"`
			GracePolicy  string          `json:"gracePolicy"`
			LinkedToCPI  bool            `json:"linkedToCPI"`
			Balloon      decimal.Decimal `json:"balloon"`
			Structure    string          `json:"structure"`
			Enabled      bool            `json:"enabled"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		policy, err := ParseGracePolicy(orDefault(temp.GracePolicy, Capitalized.String()))
		if err != nil {
			return nil, err
		}
		structure, err := ParseLoanStructure(orDefault(temp.Structure, Regular.String()))
		if err != nil {
			return nil, err
		}
		return Loan{
			ID:           temp.ID,
			Name:         temp.Name,
			Principal:    temp.Principal.InexactFloat64(),
			AnnualRate:   temp.AnnualRate.InexactFloat64(),
			Taken:        temp.Taken,
			FirstPayment: temp.FirstPayment,
			LastPayment:  temp.LastPayment,
			GracePolicy:  policy,
			LinkedToCPI:  temp.LinkedToCPI,
			BalloonAmt:   temp.Balloon.InexactFloat64(),
			Structure:    structure,
			Enabled:      temp.Enabled,
		}, nil

	case KindExtraPayment:
		var temp struct {
			ID      string          `json:"id"`
			Loan    string          `json:"loan"`
			Date    MonthIndex      `json:"date"`
			Amount  decimal.Decimal `json:"amount"`
			Effect  string          `json:"effect"`
			Enabled bool            `json:"enabled"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		effect, err := ParseExtraEffect(orDefault(temp.Effect, ReduceTerm.String()))
		if err != nil {
			return nil, err
		}
		return ExtraPayment{
			ID:      temp.ID,
			LoanID:  temp.Loan,
			Date:    temp.Date,
			Amount:  temp.Amount.InexactFloat64(),
			Effect:  effect,
			Enabled: temp.Enabled,
		}, nil

	case KindRateChange:
		var temp struct {
			ID      string          `json:"id"`
			Loan    string          `json:"loan"`
			Date    MonthIndex      `json:"date"`
			NewRate decimal.Decimal `json:"newRate"`
			Enabled bool            `json:"enabled"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return RateChange{
			ID:      temp.ID,
			LoanID:  temp.Loan,
			Date:    temp.Date,
			NewRate: temp.NewRate.InexactFloat64(),
			Enabled: temp.Enabled,
		}, nil

	case KindGracePeriod:
		var temp struct {
			ID      string     `json:"id"`
			Loan    string     `json:"loan"`
			Start   MonthIndex `json:"start"`
			End     MonthIndex `json:"end"`
			Policy  string     `json:"policy"`
			Enabled bool       `json:"enabled"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		policy, err := ParseGracePolicy(orDefault(temp.Policy, Capitalized.String()))
		if err != nil {
			return nil, err
		}
		return GracePeriod{
			ID:      temp.ID,
			LoanID:  temp.Loan,
			Start:   temp.Start,
			End:     temp.End,
			Policy:  policy,
			Enabled: temp.Enabled,
		}, nil

	default:
		return nil, fmt.Errorf("unknown record kind: %q", kind)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// EncodeRecord marshals a single record to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeRecord(w io.Writer, r Record) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", r.Kind(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// EncodeBook reorders records chronologically and persists them to an
// io.Writer in JSONL format. The sort is stable, so same-moment records keep
// their relative order.
func EncodeBook(w io.Writer, book *Book) error {
	book.stableSort()
	for _, r := range book.Records() {
		if err := EncodeRecord(w, r); err != nil {
			return err
		}
	}
	return nil
}
