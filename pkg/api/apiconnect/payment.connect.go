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

// PaymentServiceName is the fully-qualified name of the PaymentService service.
const PaymentServiceName = "settleup.v1.PaymentService"

// Procedure paths of the PaymentService methods.
const (
	PaymentServiceRecordPaymentProcedure = "/settleup.v1.PaymentService/RecordPayment"
	PaymentServiceGetPaymentProcedure    = "/settleup.v1.PaymentService/GetPayment"
	PaymentServiceUpdatePaymentProcedure = "/settleup.v1.PaymentService/UpdatePayment"
	PaymentServiceDeletePaymentProcedure = "/settleup.v1.PaymentService/DeletePayment"
	PaymentServiceListPaymentsProcedure  = "/settleup.v1.PaymentService/ListPayments"
)

// PaymentServiceClient is a client for the settleup.v1.PaymentService service.
type PaymentServiceClient interface {
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	GetPayment(context.Context, *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error)
	UpdatePayment(context.Context, *connect.Request[api.UpdatePaymentRequest]) (*connect.Response[api.UpdatePaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[emptypb.Empty], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewPaymentServiceClient constructs a client for the settleup.v1.PaymentService service. The
// JSON codec is installed first, so callers may still override it.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &paymentServiceClient{
		recordPayment: connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+PaymentServiceRecordPaymentProcedure, opts...),
		getPayment:    connect.NewClient[api.GetPaymentRequest, api.GetPaymentResponse](httpClient, baseURL+PaymentServiceGetPaymentProcedure, opts...),
		updatePayment: connect.NewClient[api.UpdatePaymentRequest, api.UpdatePaymentResponse](httpClient, baseURL+PaymentServiceUpdatePaymentProcedure, opts...),
		deletePayment: connect.NewClient[api.DeletePaymentRequest, emptypb.Empty](httpClient, baseURL+PaymentServiceDeletePaymentProcedure, opts...),
		listPayments:  connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+PaymentServiceListPaymentsProcedure, opts...),
	}
}

type paymentServiceClient struct {
	recordPayment *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	getPayment    *connect.Client[api.GetPaymentRequest, api.GetPaymentResponse]
	updatePayment *connect.Client[api.UpdatePaymentRequest, api.UpdatePaymentResponse]
	deletePayment *connect.Client[api.DeletePaymentRequest, emptypb.Empty]
	listPayments  *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
}

func (c *paymentServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) GetPayment(ctx context.Context, req *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error) {
	return c.getPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) UpdatePayment(ctx context.Context, req *connect.Request[api.UpdatePaymentRequest]) (*connect.Response[api.UpdatePaymentResponse], error) {
	return c.updatePayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

// PaymentServiceHandler is implemented by the server side of settleup.v1.PaymentService.
type PaymentServiceHandler interface {
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	GetPayment(context.Context, *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error)
	UpdatePayment(context.Context, *connect.Request[api.UpdatePaymentRequest]) (*connect.Response[api.UpdatePaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[emptypb.Empty], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler from the service implementation and
// returns the path on which to mount it.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	recordPaymentHandler := connect.NewUnaryHandler(PaymentServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	getPaymentHandler := connect.NewUnaryHandler(PaymentServiceGetPaymentProcedure, svc.GetPayment, opts...)
	updatePaymentHandler := connect.NewUnaryHandler(PaymentServiceUpdatePaymentProcedure, svc.UpdatePayment, opts...)
	deletePaymentHandler := connect.NewUnaryHandler(PaymentServiceDeletePaymentProcedure, svc.DeletePayment, opts...)
	listPaymentsHandler := connect.NewUnaryHandler(PaymentServiceListPaymentsProcedure, svc.ListPayments, opts...)
	return "/settleup.v1.PaymentService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PaymentServiceRecordPaymentProcedure:
			recordPaymentHandler.ServeHTTP(w, r)
		case PaymentServiceGetPaymentProcedure:
			getPaymentHandler.ServeHTTP(w, r)
		case PaymentServiceUpdatePaymentProcedure:
			updatePaymentHandler.ServeHTTP(w, r)
		case PaymentServiceDeletePaymentProcedure:
			deletePaymentHandler.ServeHTTP(w, r)
		case PaymentServiceListPaymentsProcedure:
			listPaymentsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedPaymentServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedPaymentServiceHandler struct{}

func (UnimplementedPaymentServiceHandler) RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.PaymentService.RecordPayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) GetPayment(context.Context, *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.PaymentService.GetPayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) UpdatePayment(context.Context, *connect.Request[api.UpdatePaymentRequest]) (*connect.Response[api.UpdatePaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.PaymentService.UpdatePayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[emptypb.Empty], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.PaymentService.DeletePayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.PaymentService.ListPayments is not implemented"))
}
