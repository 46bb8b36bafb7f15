package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "settleup.v1.ExpenseService"

// Procedure paths of the ExpenseService methods.
const (
	ExpenseServicePreviewSplitProcedure  = "/settleup.v1.ExpenseService/PreviewSplit"
	ExpenseServiceCreateExpenseProcedure = "/settleup.v1.ExpenseService/CreateExpense"
	ExpenseServiceUpdateExpenseProcedure = "/settleup.v1.ExpenseService/UpdateExpense"
	ExpenseServiceGetExpenseProcedure    = "/settleup.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure  = "/settleup.v1.ExpenseService/ListExpenses"
	ExpenseServiceDeleteExpenseProcedure = "/settleup.v1.ExpenseService/DeleteExpense"
)

// ExpenseServiceClient is a client for the settleup.v1.ExpenseService service.
type ExpenseServiceClient interface {
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error)
}

// NewExpenseServiceClient constructs a client for the settleup.v1.ExpenseService service. The
// JSON codec is installed first, so callers may still override it.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &expenseServiceClient{
		previewSplit:  connect.NewClient[api.PreviewSplitRequest, api.PreviewSplitResponse](httpClient, baseURL+ExpenseServicePreviewSplitProcedure, opts...),
		createExpense: connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		updateExpense: connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		getExpense:    connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		deleteExpense: connect.NewClient[api.DeleteExpenseRequest, emptypb.Empty](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
	}
}

type expenseServiceClient struct {
	previewSplit  *connect.Client[api.PreviewSplitRequest, api.PreviewSplitResponse]
	createExpense *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	updateExpense *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	getExpense    *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	deleteExpense *connect.Client[api.DeleteExpenseRequest, emptypb.Empty]
}

func (c *expenseServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the server side of settleup.v1.ExpenseService.
type ExpenseServiceHandler interface {
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation and
// returns the path on which to mount it.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	previewSplitHandler := connect.NewUnaryHandler(ExpenseServicePreviewSplitProcedure, svc.PreviewSplit, opts...)
	createExpenseHandler := connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	updateExpenseHandler := connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...)
	getExpenseHandler := connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...)
	listExpensesHandler := connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...)
	deleteExpenseHandler := connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	return "/settleup.v1.ExpenseService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServicePreviewSplitProcedure:
			previewSplitHandler.ServeHTTP(w, r)
		case ExpenseServiceCreateExpenseProcedure:
			createExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceUpdateExpenseProcedure:
			updateExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceGetExpenseProcedure:
			getExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceListExpensesProcedure:
			listExpensesHandler.ServeHTTP(w, r)
		case ExpenseServiceDeleteExpenseProcedure:
			deleteExpenseHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func (UnimplementedExpenseServiceHandler) PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ExpenseService.PreviewSplit is not implemented"))
}

func (UnimplementedExpenseServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ExpenseService.CreateExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ExpenseService.UpdateExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ExpenseService.GetExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ExpenseService.ListExpenses is not implemented"))
}

func (UnimplementedExpenseServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ExpenseService.DeleteExpense is not implemented"))
}
