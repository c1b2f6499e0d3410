package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/lessmo/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "lessmo.v1.LedgerService"

// Procedure paths, usable for routing and interceptor checks.
const (
	LedgerServiceCreateEventProcedure       = "/lessmo.v1.LedgerService/CreateEvent"
	LedgerServiceGetEventProcedure          = "/lessmo.v1.LedgerService/GetEvent"
	LedgerServiceAddParticipantProcedure    = "/lessmo.v1.LedgerService/AddParticipant"
	LedgerServiceListParticipantsProcedure  = "/lessmo.v1.LedgerService/ListParticipants"
	LedgerServiceRemoveParticipantProcedure = "/lessmo.v1.LedgerService/RemoveParticipant"
	LedgerServiceCreateExpenseProcedure     = "/lessmo.v1.LedgerService/CreateExpense"
	LedgerServiceUpdateExpenseProcedure     = "/lessmo.v1.LedgerService/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure     = "/lessmo.v1.LedgerService/DeleteExpense"
	LedgerServiceListExpensesProcedure      = "/lessmo.v1.LedgerService/ListExpenses"
	LedgerServiceGetBalancesProcedure       = "/lessmo.v1.LedgerService/GetBalances"
	LedgerServiceGetSettlementsProcedure    = "/lessmo.v1.LedgerService/GetSettlements"
	LedgerServiceRecordPaymentProcedure     = "/lessmo.v1.LedgerService/RecordPayment"
	LedgerServiceListPaymentsProcedure      = "/lessmo.v1.LedgerService/ListPayments"
	LedgerServiceDeletePaymentProcedure     = "/lessmo.v1.LedgerService/DeletePayment"
	LedgerServiceGetBudgetSummaryProcedure  = "/lessmo.v1.LedgerService/GetBudgetSummary"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService.
// Every method requires an authenticated caller.
type LedgerServiceHandler interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.ExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.PaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.PaymentResponse], error)
	GetBudgetSummary(context.Context, *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	createEvent := connect.NewUnaryHandler(LedgerServiceCreateEventProcedure, svc.CreateEvent, opts...)
	getEvent := connect.NewUnaryHandler(LedgerServiceGetEventProcedure, svc.GetEvent, opts...)
	addParticipant := connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...)
	listParticipants := connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...)
	removeParticipant := connect.NewUnaryHandler(LedgerServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...)
	createExpense := connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	updateExpense := connect.NewUnaryHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...)
	deleteExpense := connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	listExpenses := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...)
	getBalances := connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getSettlements := connect.NewUnaryHandler(LedgerServiceGetSettlementsProcedure, svc.GetSettlements, opts...)
	recordPayment := connect.NewUnaryHandler(LedgerServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	listPayments := connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...)
	deletePayment := connect.NewUnaryHandler(LedgerServiceDeletePaymentProcedure, svc.DeletePayment, opts...)
	getBudgetSummary := connect.NewUnaryHandler(LedgerServiceGetBudgetSummaryProcedure, svc.GetBudgetSummary, opts...)
	return "/lessmo.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateEventProcedure:
			createEvent.ServeHTTP(w, r)
		case LedgerServiceGetEventProcedure:
			getEvent.ServeHTTP(w, r)
		case LedgerServiceAddParticipantProcedure:
			addParticipant.ServeHTTP(w, r)
		case LedgerServiceListParticipantsProcedure:
			listParticipants.ServeHTTP(w, r)
		case LedgerServiceRemoveParticipantProcedure:
			removeParticipant.ServeHTTP(w, r)
		case LedgerServiceCreateExpenseProcedure:
			createExpense.ServeHTTP(w, r)
		case LedgerServiceUpdateExpenseProcedure:
			updateExpense.ServeHTTP(w, r)
		case LedgerServiceDeleteExpenseProcedure:
			deleteExpense.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case LedgerServiceGetSettlementsProcedure:
			getSettlements.ServeHTTP(w, r)
		case LedgerServiceRecordPaymentProcedure:
			recordPayment.ServeHTTP(w, r)
		case LedgerServiceListPaymentsProcedure:
			listPayments.ServeHTTP(w, r)
		case LedgerServiceDeletePaymentProcedure:
			deletePayment.ServeHTTP(w, r)
		case LedgerServiceGetBudgetSummaryProcedure:
			getBudgetSummary.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.ExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.PaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.PaymentResponse], error)
	GetBudgetSummary(context.Context, *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		createEvent:       connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](httpClient, baseURL+LedgerServiceCreateEventProcedure, opts...),
		getEvent:          connect.NewClient[api.GetEventRequest, api.GetEventResponse](httpClient, baseURL+LedgerServiceGetEventProcedure, opts...),
		addParticipant:    connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		listParticipants:  connect.NewClient[api.ListParticipantsRequest, api.ListParticipantsResponse](httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL+LedgerServiceRemoveParticipantProcedure, opts...),
		createExpense:     connect.NewClient[api.CreateExpenseRequest, api.ExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		updateExpense:     connect.NewClient[api.UpdateExpenseRequest, api.ExpenseResponse](httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		deleteExpense:     connect.NewClient[api.DeleteExpenseRequest, api.ExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		listExpenses:      connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		getBalances:       connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getSettlements:    connect.NewClient[api.GetSettlementsRequest, api.GetSettlementsResponse](httpClient, baseURL+LedgerServiceGetSettlementsProcedure, opts...),
		recordPayment:     connect.NewClient[api.RecordPaymentRequest, api.PaymentResponse](httpClient, baseURL+LedgerServiceRecordPaymentProcedure, opts...),
		listPayments:      connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+LedgerServiceListPaymentsProcedure, opts...),
		deletePayment:     connect.NewClient[api.DeletePaymentRequest, api.PaymentResponse](httpClient, baseURL+LedgerServiceDeletePaymentProcedure, opts...),
		getBudgetSummary:  connect.NewClient[api.GetBudgetSummaryRequest, api.GetBudgetSummaryResponse](httpClient, baseURL+LedgerServiceGetBudgetSummaryProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createEvent       *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	getEvent          *connect.Client[api.GetEventRequest, api.GetEventResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	listParticipants  *connect.Client[api.ListParticipantsRequest, api.ListParticipantsResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	createExpense     *connect.Client[api.CreateExpenseRequest, api.ExpenseResponse]
	updateExpense     *connect.Client[api.UpdateExpenseRequest, api.ExpenseResponse]
	deleteExpense     *connect.Client[api.DeleteExpenseRequest, api.ExpenseResponse]
	listExpenses      *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlements    *connect.Client[api.GetSettlementsRequest, api.GetSettlementsResponse]
	recordPayment     *connect.Client[api.RecordPaymentRequest, api.PaymentResponse]
	listPayments      *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	deletePayment     *connect.Client[api.DeletePaymentRequest, api.PaymentResponse]
	getBudgetSummary  *connect.Client[api.GetBudgetSummaryRequest, api.GetBudgetSummaryResponse]
}

func (c *ledgerServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	return c.getSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBudgetSummary(ctx context.Context, req *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error) {
	return c.getBudgetSummary.CallUnary(ctx, req)
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.CreateEvent is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.GetEvent is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.AddParticipant is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.ListParticipants is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.RemoveParticipant is not implemented"))
}

func (UnimplementedLedgerServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.CreateExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.UpdateExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.DeleteExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.ListExpenses is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.GetBalances is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.GetSettlements is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.RecordPayment is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.ListPayments is not implemented"))
}

func (UnimplementedLedgerServiceHandler) DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.DeletePayment is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetBudgetSummary(context.Context, *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("lessmo.v1.LedgerService.GetBudgetSummary is not implemented"))
}
