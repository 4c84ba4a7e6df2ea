// Package csvio reads and writes the CSV formats used for import and export.
//
// Transactions use the header id,date,description,amount,category,type (id
// is ignored on import and may be omitted). Budgets use category,limit.
// Column order on import is free; header names are case-insensitive.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/ledger"
	"github.com/mmynk/budgetwise/internal/models"
)

var (
	TransactionHeader = []string{"id", "date", "description", "amount", "category", "type"}
	BudgetHeader      = []string{"category", "limit"}

	ErrEmpty = errors.New("csv file is empty")

	// groupedAmount matches comma thousands grouping such as 1,250.50.
	groupedAmount = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// LineError locates a problem in the input. Line is 1-based and counts the
// header.
type LineError struct {
	Line   int
	Column string
	Err    error
}

func (e *LineError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Column, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// table is a parsed CSV file with its header mapped to column indexes.
type table struct {
	columns map[string]int
	rows    [][]string
	lines   []int
}

func (t *table) get(row []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readTable(r io.Reader, required []string) (*table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, bom)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	t := &table{columns: make(map[string]int)}
	for i, name := range header {
		t.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			return nil, &LineError{Line: 1, Column: name, Err: errors.New("missing column")}
		}
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, row)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseAmount(s string, line int, column string) (decimal.Decimal, error) {
	// Tolerate exported spreadsheets that format money as "$1,234.50".
	// A comma is only a thousands separator; "1,5" is rejected, not read as 15.
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if strings.Contains(cleaned, ",") {
		if !groupedAmount.MatchString(cleaned) {
			return decimal.Decimal{}, &LineError{Line: line, Column: column, Err: fmt.Errorf("%q has an ambiguous decimal separator", s)}
		}
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, &LineError{Line: line, Column: column, Err: fmt.Errorf("%q is not a number", s)}
	}
	return d, nil
}

// ReadTransactions parses a transactions CSV into ledger inputs. Blank
// lines are skipped. Field validation is left to the ledger.
func ReadTransactions(r io.Reader) ([]ledger.TransactionInput, error) {
	t, err := readTable(r, TransactionHeader[1:])
	if err != nil {
		return nil, err
	}

	inputs := make([]ledger.TransactionInput, 0, len(t.rows))
	for i, row := range t.rows {
		if isBlank(row) {
			continue
		}
		line := t.lines[i]
		amount, err := parseAmount(t.get(row, "amount"), line, "amount")
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, ledger.TransactionInput{
			Date:        t.get(row, "date"),
			Description: t.get(row, "description"),
			Amount:      amount,
			Category:    t.get(row, "category"),
			Type:        models.TransactionType(t.get(row, "type")),
		})
	}
	return inputs, nil
}

// ReadBudgets parses a budgets CSV into ledger inputs.
func ReadBudgets(r io.Reader) ([]ledger.BudgetInput, error) {
	t, err := readTable(r, BudgetHeader)
	if err != nil {
		return nil, err
	}

	inputs := make([]ledger.BudgetInput, 0, len(t.rows))
	for i, row := range t.rows {
		if isBlank(row) {
			continue
		}
		limit, err := parseAmount(t.get(row, "limit"), t.lines[i], "limit")
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, ledger.BudgetInput{
			Category: t.get(row, "category"),
			Limit:    limit,
		})
	}
	return inputs, nil
}

// WriteTransactions writes txns with the transaction header.
func WriteTransactions(w io.Writer, txns []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TransactionHeader); err != nil {
		return err
	}
	for _, t := range txns {
		record := []string{
			t.ID,
			t.DateString(),
			t.Description,
			t.Amount.String(),
			t.Category,
			string(t.Type),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBudgets writes budgets with the budget header.
func WriteBudgets(w io.Writer, budgets []models.Budget) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BudgetHeader); err != nil {
		return err
	}
	for _, b := range budgets {
		if err := cw.Write([]string{b.Category, b.Limit.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
