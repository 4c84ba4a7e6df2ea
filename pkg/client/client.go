// Package client is a Go client for the BudgetWise API. It keeps the
// session cookie in a jar, so a Client behaves like one browser.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwise/pkg/api"
)

// Client calls the BudgetWise RPC procedures over the Connect protocol.
type Client struct {
	http    *http.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses hc for every call. If hc has no cookie jar one is
// added, since sessions live in a cookie.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		clone := *c.http
		clone.Jar = jar
		c.http = &clone
	}
	return c, nil
}

func unary[Req, Res any](ctx context.Context, c *Client, procedure string, msg *Req) (*Res, error) {
	rpc := connect.NewClient[Req, Res](c.http, c.baseURL+procedure, connect.WithCodec(api.Codec()))
	resp, err := rpc.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*api.Session, error) {
	resp, err := unary[api.SignUpRequest, api.SignUpResponse](ctx, c, api.AuthServiceSignUpProcedure, &api.SignUpRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*api.Session, error) {
	resp, err := unary[api.SignInRequest, api.SignInResponse](ctx, c, api.AuthServiceSignInProcedure, &api.SignInRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

// SignInGuest starts a read-only trial session.
func (c *Client) SignInGuest(ctx context.Context) (*api.Session, error) {
	resp, err := unary[api.SignInGuestRequest, api.SignInGuestResponse](ctx, c, api.AuthServiceSignInGuestProcedure, &api.SignInGuestRequest{})
	if err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	_, err := unary[api.SignOutRequest, api.SignOutResponse](ctx, c, api.AuthServiceSignOutProcedure, &api.SignOutRequest{})
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (*api.User, error) {
	resp, err := unary[api.GetCurrentUserRequest, api.GetCurrentUserResponse](ctx, c, api.AuthServiceGetCurrentUserProcedure, &api.GetCurrentUserRequest{})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.User, error) {
	resp, err := unary[api.UpdateProfileRequest, api.UpdateProfileResponse](ctx, c, api.AuthServiceUpdateProfileProcedure, req)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]api.Transaction, error) {
	resp, err := unary[api.ListTransactionsRequest, api.ListTransactionsResponse](ctx, c, api.LedgerServiceListTransactionsProcedure, &api.ListTransactionsRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *Client) AddTransaction(ctx context.Context, req *api.AddTransactionRequest) (*api.Transaction, error) {
	resp, err := unary[api.AddTransactionRequest, api.AddTransactionResponse](ctx, c, api.LedgerServiceAddTransactionProcedure, req)
	if err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	_, err := unary[api.DeleteTransactionRequest, api.DeleteTransactionResponse](ctx, c, api.LedgerServiceDeleteTransactionProcedure, &api.DeleteTransactionRequest{ID: id})
	return err
}

func (c *Client) ListBudgets(ctx context.Context) ([]api.Budget, error) {
	resp, err := unary[api.ListBudgetsRequest, api.ListBudgetsResponse](ctx, c, api.LedgerServiceListBudgetsProcedure, &api.ListBudgetsRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Budgets, nil
}

func (c *Client) SetBudget(ctx context.Context, req *api.SetBudgetRequest) (*api.Budget, error) {
	resp, err := unary[api.SetBudgetRequest, api.SetBudgetResponse](ctx, c, api.LedgerServiceSetBudgetProcedure, req)
	if err != nil {
		return nil, err
	}
	return &resp.Budget, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	resp, err := unary[api.ListCategoriesRequest, api.ListCategoriesResponse](ctx, c, api.LedgerServiceListCategoriesProcedure, &api.ListCategoriesRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) AddCategory(ctx context.Context, name string) (bool, error) {
	resp, err := unary[api.AddCategoryRequest, api.AddCategoryResponse](ctx, c, api.LedgerServiceAddCategoryProcedure, &api.AddCategoryRequest{Name: name})
	if err != nil {
		return false, err
	}
	return resp.Created, nil
}

// Dashboard fetches the server-computed dashboard. month is YYYY-MM or empty.
func (c *Client) Dashboard(ctx context.Context, month string) (*api.GetDashboardResponse, error) {
	return unary[api.GetDashboardRequest, api.GetDashboardResponse](ctx, c, api.LedgerServiceGetDashboardProcedure, &api.GetDashboardRequest{Month: month})
}

func (c *Client) ImportCSV(ctx context.Context, transactions, budgets string) (*api.ImportCSVResponse, error) {
	return unary[api.ImportCSVRequest, api.ImportCSVResponse](ctx, c, api.LedgerServiceImportCSVProcedure, &api.ImportCSVRequest{
		Transactions: transactions,
		Budgets:      budgets,
	})
}

func (c *Client) ExportCSV(ctx context.Context) (*api.ExportCSVResponse, error) {
	return unary[api.ExportCSVRequest, api.ExportCSVResponse](ctx, c, api.LedgerServiceExportCSVProcedure, &api.ExportCSVRequest{})
}

func (c *Client) SuggestCategory(ctx context.Context, description string, categories []string) (string, error) {
	resp, err := unary[api.SuggestCategoryRequest, api.SuggestCategoryResponse](ctx, c, api.AssistServiceSuggestCategoryProcedure, &api.SuggestCategoryRequest{
		Description: description,
		Categories:  categories,
	})
	if err != nil {
		return "", err
	}
	return resp.Category, nil
}

func (c *Client) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*api.ExtractReceiptResponse, error) {
	return unary[api.ExtractReceiptRequest, api.ExtractReceiptResponse](ctx, c, api.AssistServiceExtractReceiptProcedure, &api.ExtractReceiptRequest{
		Image:    image,
		MimeType: mimeType,
	})
}

func (c *Client) SpendingSuggestions(ctx context.Context) (*api.SpendingSuggestionsResponse, error) {
	return unary[api.SpendingSuggestionsRequest, api.SpendingSuggestionsResponse](ctx, c, api.AssistServiceSpendingSuggestionsProcedure, &api.SpendingSuggestionsRequest{})
}
