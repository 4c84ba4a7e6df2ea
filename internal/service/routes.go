package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/metrics"
	"github.com/mmynk/budgetwise/internal/middleware"
	"github.com/mmynk/budgetwise/pkg/api"
)

// Services groups the RPC implementations served by Register.
type Services struct {
	Auth   *AuthService
	Ledger *LedgerService
	Assist *AssistService
}

func unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// HandlerOptions returns the options shared by every procedure: the JSON
// codec and the interceptor chain (metrics, session, logging, outermost first).
func HandlerOptions(gate *auth.Gate, m *metrics.Metrics, logger *slog.Logger) []connect.HandlerOption {
	return []connect.HandlerOption{
		connect.WithCodec(api.Codec()),
		connect.WithInterceptors(
			middleware.MetricsInterceptor(m),
			middleware.RequireSession(gate, api.PublicProcedures),
			middleware.LoggingInterceptor(logger),
		),
	}
}

// Register mounts every RPC procedure on mux.
func Register(mux *http.ServeMux, svcs Services, opts []connect.HandlerOption) {
	a := svcs.Auth
	unary(mux, api.AuthServiceSignUpProcedure, a.SignUp, opts)
	unary(mux, api.AuthServiceSignInProcedure, a.SignIn, opts)
	unary(mux, api.AuthServiceSignInGuestProcedure, a.SignInGuest, opts)
	unary(mux, api.AuthServiceSignOutProcedure, a.SignOut, opts)
	unary(mux, api.AuthServiceGetCurrentUserProcedure, a.GetCurrentUser, opts)
	unary(mux, api.AuthServiceUpdateProfileProcedure, a.UpdateProfile, opts)

	l := svcs.Ledger
	unary(mux, api.LedgerServiceListTransactionsProcedure, l.ListTransactions, opts)
	unary(mux, api.LedgerServiceAddTransactionProcedure, l.AddTransaction, opts)
	unary(mux, api.LedgerServiceDeleteTransactionProcedure, l.DeleteTransaction, opts)
	unary(mux, api.LedgerServiceListBudgetsProcedure, l.ListBudgets, opts)
	unary(mux, api.LedgerServiceSetBudgetProcedure, l.SetBudget, opts)
	unary(mux, api.LedgerServiceListCategoriesProcedure, l.ListCategories, opts)
	unary(mux, api.LedgerServiceAddCategoryProcedure, l.AddCategory, opts)
	unary(mux, api.LedgerServiceGetDashboardProcedure, l.GetDashboard, opts)
	unary(mux, api.LedgerServiceImportCSVProcedure, l.ImportCSV, opts)
	unary(mux, api.LedgerServiceExportCSVProcedure, l.ExportCSV, opts)

	as := svcs.Assist
	unary(mux, api.AssistServiceSuggestCategoryProcedure, as.SuggestCategory, opts)
	unary(mux, api.AssistServiceExtractReceiptProcedure, as.ExtractReceipt, opts)
	unary(mux, api.AssistServiceSpendingSuggestionsProcedure, as.SpendingSuggestions, opts)
}
