// Package api defines the BudgetWise RPC surface: procedure names, request
// and response messages, and the JSON codec both servers and clients use.
//
// Messages are plain Go structs served over the Connect protocol with
// JSON bodies. Money amounts are decimal strings, dates are YYYY-MM-DD.
package api
