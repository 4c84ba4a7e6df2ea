package api

// Service names.
const (
	AuthServiceName   = "budgetwise.v1.AuthService"
	LedgerServiceName = "budgetwise.v1.LedgerService"
	AssistServiceName = "budgetwise.v1.AssistService"
)

// AuthService procedures.
const (
	AuthServiceSignUpProcedure         = "/" + AuthServiceName + "/SignUp"
	AuthServiceSignInProcedure         = "/" + AuthServiceName + "/SignIn"
	AuthServiceSignInGuestProcedure    = "/" + AuthServiceName + "/SignInGuest"
	AuthServiceSignOutProcedure        = "/" + AuthServiceName + "/SignOut"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
	AuthServiceUpdateProfileProcedure  = "/" + AuthServiceName + "/UpdateProfile"
)

// LedgerService procedures.
const (
	LedgerServiceListTransactionsProcedure  = "/" + LedgerServiceName + "/ListTransactions"
	LedgerServiceAddTransactionProcedure    = "/" + LedgerServiceName + "/AddTransaction"
	LedgerServiceDeleteTransactionProcedure = "/" + LedgerServiceName + "/DeleteTransaction"
	LedgerServiceListBudgetsProcedure       = "/" + LedgerServiceName + "/ListBudgets"
	LedgerServiceSetBudgetProcedure         = "/" + LedgerServiceName + "/SetBudget"
	LedgerServiceListCategoriesProcedure    = "/" + LedgerServiceName + "/ListCategories"
	LedgerServiceAddCategoryProcedure       = "/" + LedgerServiceName + "/AddCategory"
	LedgerServiceGetDashboardProcedure      = "/" + LedgerServiceName + "/GetDashboard"
	LedgerServiceImportCSVProcedure         = "/" + LedgerServiceName + "/ImportCSV"
	LedgerServiceExportCSVProcedure         = "/" + LedgerServiceName + "/ExportCSV"
)

// AssistService procedures.
const (
	AssistServiceSuggestCategoryProcedure     = "/" + AssistServiceName + "/SuggestCategory"
	AssistServiceExtractReceiptProcedure      = "/" + AssistServiceName + "/ExtractReceipt"
	AssistServiceSpendingSuggestionsProcedure = "/" + AssistServiceName + "/SpendingSuggestions"
)

// PublicProcedures can be called without a session.
var PublicProcedures = map[string]bool{
	AuthServiceSignUpProcedure:      true,
	AuthServiceSignInProcedure:      true,
	AuthServiceSignInGuestProcedure: true,
	AuthServiceSignOutProcedure:     true,
}
