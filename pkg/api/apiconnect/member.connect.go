package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// MemberServiceName is the fully-qualified name of the MemberService service.
const MemberServiceName = "settleup.v1.MemberService"

// Procedure paths of the MemberService methods.
const (
	MemberServiceListMembersProcedure               = "/settleup.v1.MemberService/ListMembers"
	MemberServiceGetMyMembershipProcedure           = "/settleup.v1.MemberService/GetMyMembership"
	MemberServiceListUnclaimedByInviteCodeProcedure = "/settleup.v1.MemberService/ListUnclaimedByInviteCode"
	MemberServiceAddMemberProcedure                 = "/settleup.v1.MemberService/AddMember"
	MemberServiceClaimMemberProcedure               = "/settleup.v1.MemberService/ClaimMember"
	MemberServiceJoinByInviteCodeProcedure          = "/settleup.v1.MemberService/JoinByInviteCode"
	MemberServiceUpdateMyDisplayNameProcedure       = "/settleup.v1.MemberService/UpdateMyDisplayName"
	MemberServiceArchiveMemberProcedure             = "/settleup.v1.MemberService/ArchiveMember"
)

// MemberServiceClient is a client for the settleup.v1.MemberService service.
type MemberServiceClient interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	GetMyMembership(context.Context, *connect.Request[api.GetMyMembershipRequest]) (*connect.Response[api.GetMyMembershipResponse], error)
	ListUnclaimedByInviteCode(context.Context, *connect.Request[api.ListUnclaimedByInviteCodeRequest]) (*connect.Response[api.ListUnclaimedByInviteCodeResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ClaimMember(context.Context, *connect.Request[api.ClaimMemberRequest]) (*connect.Response[api.ClaimMemberResponse], error)
	JoinByInviteCode(context.Context, *connect.Request[api.JoinByInviteCodeRequest]) (*connect.Response[api.JoinByInviteCodeResponse], error)
	UpdateMyDisplayName(context.Context, *connect.Request[api.UpdateMyDisplayNameRequest]) (*connect.Response[api.UpdateMyDisplayNameResponse], error)
	ArchiveMember(context.Context, *connect.Request[api.ArchiveMemberRequest]) (*connect.Response[api.ArchiveMemberResponse], error)
}

// NewMemberServiceClient constructs a client for the settleup.v1.MemberService service. The
// JSON codec is installed first, so callers may still override it.
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MemberServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &memberServiceClient{
		listMembers:               connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+MemberServiceListMembersProcedure, opts...),
		getMyMembership:           connect.NewClient[api.GetMyMembershipRequest, api.GetMyMembershipResponse](httpClient, baseURL+MemberServiceGetMyMembershipProcedure, opts...),
		listUnclaimedByInviteCode: connect.NewClient[api.ListUnclaimedByInviteCodeRequest, api.ListUnclaimedByInviteCodeResponse](httpClient, baseURL+MemberServiceListUnclaimedByInviteCodeProcedure, opts...),
		addMember:                 connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+MemberServiceAddMemberProcedure, opts...),
		claimMember:               connect.NewClient[api.ClaimMemberRequest, api.ClaimMemberResponse](httpClient, baseURL+MemberServiceClaimMemberProcedure, opts...),
		joinByInviteCode:          connect.NewClient[api.JoinByInviteCodeRequest, api.JoinByInviteCodeResponse](httpClient, baseURL+MemberServiceJoinByInviteCodeProcedure, opts...),
		updateMyDisplayName:       connect.NewClient[api.UpdateMyDisplayNameRequest, api.UpdateMyDisplayNameResponse](httpClient, baseURL+MemberServiceUpdateMyDisplayNameProcedure, opts...),
		archiveMember:             connect.NewClient[api.ArchiveMemberRequest, api.ArchiveMemberResponse](httpClient, baseURL+MemberServiceArchiveMemberProcedure, opts...),
	}
}

type memberServiceClient struct {
	listMembers               *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	getMyMembership           *connect.Client[api.GetMyMembershipRequest, api.GetMyMembershipResponse]
	listUnclaimedByInviteCode *connect.Client[api.ListUnclaimedByInviteCodeRequest, api.ListUnclaimedByInviteCodeResponse]
	addMember                 *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	claimMember               *connect.Client[api.ClaimMemberRequest, api.ClaimMemberResponse]
	joinByInviteCode          *connect.Client[api.JoinByInviteCodeRequest, api.JoinByInviteCodeResponse]
	updateMyDisplayName       *connect.Client[api.UpdateMyDisplayNameRequest, api.UpdateMyDisplayNameResponse]
	archiveMember             *connect.Client[api.ArchiveMemberRequest, api.ArchiveMemberResponse]
}

func (c *memberServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *memberServiceClient) GetMyMembership(ctx context.Context, req *connect.Request[api.GetMyMembershipRequest]) (*connect.Response[api.GetMyMembershipResponse], error) {
	return c.getMyMembership.CallUnary(ctx, req)
}

func (c *memberServiceClient) ListUnclaimedByInviteCode(ctx context.Context, req *connect.Request[api.ListUnclaimedByInviteCodeRequest]) (*connect.Response[api.ListUnclaimedByInviteCodeResponse], error) {
	return c.listUnclaimedByInviteCode.CallUnary(ctx, req)
}

func (c *memberServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) ClaimMember(ctx context.Context, req *connect.Request[api.ClaimMemberRequest]) (*connect.Response[api.ClaimMemberResponse], error) {
	return c.claimMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) JoinByInviteCode(ctx context.Context, req *connect.Request[api.JoinByInviteCodeRequest]) (*connect.Response[api.JoinByInviteCodeResponse], error) {
	return c.joinByInviteCode.CallUnary(ctx, req)
}

func (c *memberServiceClient) UpdateMyDisplayName(ctx context.Context, req *connect.Request[api.UpdateMyDisplayNameRequest]) (*connect.Response[api.UpdateMyDisplayNameResponse], error) {
	return c.updateMyDisplayName.CallUnary(ctx, req)
}

func (c *memberServiceClient) ArchiveMember(ctx context.Context, req *connect.Request[api.ArchiveMemberRequest]) (*connect.Response[api.ArchiveMemberResponse], error) {
	return c.archiveMember.CallUnary(ctx, req)
}

// MemberServiceHandler is implemented by the server side of settleup.v1.MemberService.
type MemberServiceHandler interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	GetMyMembership(context.Context, *connect.Request[api.GetMyMembershipRequest]) (*connect.Response[api.GetMyMembershipResponse], error)
	ListUnclaimedByInviteCode(context.Context, *connect.Request[api.ListUnclaimedByInviteCodeRequest]) (*connect.Response[api.ListUnclaimedByInviteCodeResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ClaimMember(context.Context, *connect.Request[api.ClaimMemberRequest]) (*connect.Response[api.ClaimMemberResponse], error)
	JoinByInviteCode(context.Context, *connect.Request[api.JoinByInviteCodeRequest]) (*connect.Response[api.JoinByInviteCodeResponse], error)
	UpdateMyDisplayName(context.Context, *connect.Request[api.UpdateMyDisplayNameRequest]) (*connect.Response[api.UpdateMyDisplayNameResponse], error)
	ArchiveMember(context.Context, *connect.Request[api.ArchiveMemberRequest]) (*connect.Response[api.ArchiveMemberResponse], error)
}

// NewMemberServiceHandler builds an HTTP handler from the service implementation and
// returns the path on which to mount it.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	listMembersHandler := connect.NewUnaryHandler(MemberServiceListMembersProcedure, svc.ListMembers, opts...)
	getMyMembershipHandler := connect.NewUnaryHandler(MemberServiceGetMyMembershipProcedure, svc.GetMyMembership, opts...)
	listUnclaimedByInviteCodeHandler := connect.NewUnaryHandler(MemberServiceListUnclaimedByInviteCodeProcedure, svc.ListUnclaimedByInviteCode, opts...)
	addMemberHandler := connect.NewUnaryHandler(MemberServiceAddMemberProcedure, svc.AddMember, opts...)
	claimMemberHandler := connect.NewUnaryHandler(MemberServiceClaimMemberProcedure, svc.ClaimMember, opts...)
	joinByInviteCodeHandler := connect.NewUnaryHandler(MemberServiceJoinByInviteCodeProcedure, svc.JoinByInviteCode, opts...)
	updateMyDisplayNameHandler := connect.NewUnaryHandler(MemberServiceUpdateMyDisplayNameProcedure, svc.UpdateMyDisplayName, opts...)
	archiveMemberHandler := connect.NewUnaryHandler(MemberServiceArchiveMemberProcedure, svc.ArchiveMember, opts...)
	return "/settleup.v1.MemberService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case MemberServiceListMembersProcedure:
			listMembersHandler.ServeHTTP(w, r)
		case MemberServiceGetMyMembershipProcedure:
			getMyMembershipHandler.ServeHTTP(w, r)
		case MemberServiceListUnclaimedByInviteCodeProcedure:
			listUnclaimedByInviteCodeHandler.ServeHTTP(w, r)
		case MemberServiceAddMemberProcedure:
			addMemberHandler.ServeHTTP(w, r)
		case MemberServiceClaimMemberProcedure:
			claimMemberHandler.ServeHTTP(w, r)
		case MemberServiceJoinByInviteCodeProcedure:
			joinByInviteCodeHandler.ServeHTTP(w, r)
		case MemberServiceUpdateMyDisplayNameProcedure:
			updateMyDisplayNameHandler.ServeHTTP(w, r)
		case MemberServiceArchiveMemberProcedure:
			archiveMemberHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedMemberServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedMemberServiceHandler struct{}

func (UnimplementedMemberServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.MemberService.ListMembers is not implemented"))
}

func (UnimplementedMemberServiceHandler) GetMyMembership(context.Context, *connect.Request[api.GetMyMembershipRequest]) (*connect.Response[api.GetMyMembershipResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.MemberService.GetMyMembership is not implemented"))
}

func (UnimplementedMemberServiceHandler) ListUnclaimedByInviteCode(context.Context, *connect.Request[api.ListUnclaimedByInviteCodeRequest]) (*connect.Response[api.ListUnclaimedByInviteCodeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.MemberService.ListUnclaimedByInviteCode is not implemented"))
}

func (UnimplementedMemberServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.MemberService.AddMember is not implemented"))
}

func (UnimplementedMemberServiceHandler) ClaimMember(context.Context, *connect.Request[api.ClaimMemberRequest]) (*connect.Response[api.ClaimMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.MemberService.ClaimMember is not implemented"))
}

func (UnimplementedMemberServiceHandler) JoinByInviteCode(context.Context, *connect.Request[api.JoinByInviteCodeRequest]) (*connect.Response[api.JoinByInviteCodeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.MemberService.JoinByInviteCode is not implemented"))
}

func (UnimplementedMemberServiceHandler) UpdateMyDisplayName(context.Context, *connect.Request[api.UpdateMyDisplayNameRequest]) (*connect.Response[api.UpdateMyDisplayNameResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.MemberService.UpdateMyDisplayName is not implemented"))
}

func (UnimplementedMemberServiceHandler) ArchiveMember(context.Context, *connect.Request[api.ArchiveMemberRequest]) (*connect.Response[api.ArchiveMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.MemberService.ArchiveMember is not implemented"))
}
