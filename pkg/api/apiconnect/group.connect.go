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

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "settleup.v1.GroupService"

// Procedure paths of the GroupService methods.
const (
	GroupServiceCreateGroupProcedure          = "/settleup.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure             = "/settleup.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure           = "/settleup.v1.GroupService/ListGroups"
	GroupServiceGetGroupByInviteCodeProcedure = "/settleup.v1.GroupService/GetGroupByInviteCode"
	GroupServiceGetGroupBalancesProcedure     = "/settleup.v1.GroupService/GetGroupBalances"
)

// GroupServiceClient is a client for the settleup.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroupByInviteCode(context.Context, *connect.Request[api.GetGroupByInviteCodeRequest]) (*connect.Response[api.GetGroupByInviteCodeResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewGroupServiceClient constructs a client for the settleup.v1.GroupService service. The
// JSON codec is installed first, so callers may still override it.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &groupServiceClient{
		createGroup:          connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:             connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:           connect.NewClient[emptypb.Empty, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		getGroupByInviteCode: connect.NewClient[api.GetGroupByInviteCodeRequest, api.GetGroupByInviteCodeResponse](httpClient, baseURL+GroupServiceGetGroupByInviteCodeProcedure, opts...),
		getGroupBalances:     connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+GroupServiceGetGroupBalancesProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup          *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup             *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups           *connect.Client[emptypb.Empty, api.ListGroupsResponse]
	getGroupByInviteCode *connect.Client[api.GetGroupByInviteCodeRequest, api.GetGroupByInviteCodeResponse]
	getGroupBalances     *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupByInviteCode(ctx context.Context, req *connect.Request[api.GetGroupByInviteCodeRequest]) (*connect.Response[api.GetGroupByInviteCodeResponse], error) {
	return c.getGroupByInviteCode.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the server side of settleup.v1.GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroupByInviteCode(context.Context, *connect.Request[api.GetGroupByInviteCodeRequest]) (*connect.Response[api.GetGroupByInviteCodeResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation and
// returns the path on which to mount it.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	createGroupHandler := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroupHandler := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	listGroupsHandler := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	getGroupByInviteCodeHandler := connect.NewUnaryHandler(GroupServiceGetGroupByInviteCodeProcedure, svc.GetGroupByInviteCode, opts...)
	getGroupBalancesHandler := connect.NewUnaryHandler(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...)
	return "/settleup.v1.GroupService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroupHandler.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroupsHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupByInviteCodeProcedure:
			getGroupByInviteCodeHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupBalancesProcedure:
			getGroupBalancesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.GroupService.CreateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.GroupService.GetGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.GroupService.ListGroups is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroupByInviteCode(context.Context, *connect.Request[api.GetGroupByInviteCodeRequest]) (*connect.Response[api.GetGroupByInviteCodeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.GroupService.GetGroupByInviteCode is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.GroupService.GetGroupBalances is not implemented"))
}
