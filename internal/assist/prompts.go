package assist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/mmynk/budgetwise/internal/models"
)

const categorizePrompt = `You are an expert at categorizing financial transactions.
Based on the transaction description, select the most appropriate category from the provided list.

Transaction Description: %q

Available Categories:
%s
Select only one category from the list.`

const receiptPrompt = `Analyze the following payment screenshot. Extract the following information:
- amount: The transaction amount.
- date: The date of the transaction.
- merchant: The name of the merchant or recipient.
- transactionId: Any unique transaction reference number.
- description: A brief description of the transaction.
- categoryHint: A suggestion for the transaction category (e.g., Food, Travel, Utilities, Shopping).

If a piece of information is not found, omit it from the output.`

const suggestionsPrompt = `You are a personal finance advisor providing suggestions to users on how to cut spending based on their historical data and budget goals.

Analyze the following historical spending data:
%s
Consider these budget goals:
%s
Provide a list of specific, actionable suggestions on areas where the user can cut spending. Focus on areas where spending exceeds budget goals or where historical spending shows potential for reduction.`

func buildCategorizePrompt(description string, categories []string) string {
	var list strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&list, "- %s\n", c)
	}
	return fmt.Sprintf(categorizePrompt, description, list.String())
}

// HistoryCSV renders expenses as category,amount,date rows.
func HistoryCSV(txns []models.Transaction) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"category", "amount", "date"})
	for _, t := range txns {
		if t.Type != models.TransactionExpense {
			continue
		}
		w.Write([]string{t.Category, t.Amount.String(), t.DateString()})
	}
	w.Flush()
	return buf.String()
}

// BudgetCSV renders budgets as category,budget rows.
func BudgetCSV(budgets []models.Budget) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"category", "budget"})
	for _, b := range budgets {
		w.Write([]string{b.Category, b.Limit.String()})
	}
	w.Flush()
	return buf.String()
}

func buildSuggestionsPrompt(txns []models.Transaction, budgets []models.Budget) string {
	return fmt.Sprintf(suggestionsPrompt, HistoryCSV(txns), BudgetCSV(budgets))
}

// matchCategory maps a model answer onto the vocabulary, ignoring case and
// surrounding punctuation. Unknown answers yield "".
func matchCategory(answer string, categories []string) string {
	answer = strings.Trim(strings.TrimSpace(answer), `"'.`)
	for _, c := range categories {
		if strings.EqualFold(c, answer) {
			return c
		}
	}
	return ""
}
