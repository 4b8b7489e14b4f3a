package grpc

// proto.go hand-writes the service descriptor for credit.v1.CreditService.
// Messages are the application DTOs, carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/credit-engine/internal/application/dto"
)

const serviceName = "credit.v1.CreditService"

// CreditServiceServer is the server API for CreditService.
type CreditServiceServer interface {
	RegisterCustomer(context.Context, *dto.RegisterCustomerRequest) (*dto.CustomerResponse, error)
	CheckEligibility(context.Context, *dto.LoanRequest) (*dto.EligibilityResponse, error)
	CreateLoan(context.Context, *dto.LoanRequest) (*dto.CreateLoanResponse, error)
	GetLoan(context.Context, *dto.GetLoanRequest) (*dto.LoanDetailResponse, error)
	ListCustomerLoans(context.Context, *dto.CustomerRequest) (*dto.CustomerLoansResponse, error)
	GetCreditScore(context.Context, *dto.CustomerRequest) (*dto.CreditScoreResponse, error)
	mustEmbedUnimplementedCreditServiceServer()
}

// UnimplementedCreditServiceServer provides forward-compatible default implementations.
type UnimplementedCreditServiceServer struct{}

func (UnimplementedCreditServiceServer) RegisterCustomer(context.Context, *dto.RegisterCustomerRequest) (*dto.CustomerResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterCustomer not implemented")
}
func (UnimplementedCreditServiceServer) CheckEligibility(context.Context, *dto.LoanRequest) (*dto.EligibilityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CheckEligibility not implemented")
}
func (UnimplementedCreditServiceServer) CreateLoan(context.Context, *dto.LoanRequest) (*dto.CreateLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateLoan not implemented")
}
func (UnimplementedCreditServiceServer) GetLoan(context.Context, *dto.GetLoanRequest) (*dto.LoanDetailResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedCreditServiceServer) ListCustomerLoans(context.Context, *dto.CustomerRequest) (*dto.CustomerLoansResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCustomerLoans not implemented")
}
func (UnimplementedCreditServiceServer) GetCreditScore(context.Context, *dto.CustomerRequest) (*dto.CreditScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCreditScore not implemented")
}
func (UnimplementedCreditServiceServer) mustEmbedUnimplementedCreditServiceServer() {}

// RegisterCreditServiceServer registers srv with the gRPC server.
func RegisterCreditServiceServer(s grpclib.ServiceRegistrar, srv CreditServiceServer) {
	s.RegisterService(&_CreditService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _CreditService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CreditServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "RegisterCustomer", Handler: _CreditService_RegisterCustomer_Handler},
		{MethodName: "CheckEligibility", Handler: _CreditService_CheckEligibility_Handler},
		{MethodName: "CreateLoan", Handler: _CreditService_CreateLoan_Handler},
		{MethodName: "GetLoan", Handler: _CreditService_GetLoan_Handler},
		{MethodName: "ListCustomerLoans", Handler: _CreditService_ListCustomerLoans_Handler},
		{MethodName: "GetCreditScore", Handler: _CreditService_GetCreditScore_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "credit/v1/credit.proto",
}

//nolint:revive,errcheck // gRPC handler registration
func _CreditService_RegisterCustomer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(dto.RegisterCustomerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).RegisterCustomer(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/RegisterCustomer",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).RegisterCustomer(ctx, req.(*dto.RegisterCustomerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _CreditService_CheckEligibility_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(dto.LoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).CheckEligibility(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/CheckEligibility",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).CheckEligibility(ctx, req.(*dto.LoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _CreditService_CreateLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(dto.LoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).CreateLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/CreateLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).CreateLoan(ctx, req.(*dto.LoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _CreditService_GetLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(dto.GetLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).GetLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/GetLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).GetLoan(ctx, req.(*dto.GetLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _CreditService_ListCustomerLoans_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(dto.CustomerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).ListCustomerLoans(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/ListCustomerLoans",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).ListCustomerLoans(ctx, req.(*dto.CustomerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _CreditService_GetCreditScore_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(dto.CustomerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditServiceServer).GetCreditScore(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/GetCreditScore",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditServiceServer).GetCreditScore(ctx, req.(*dto.CustomerRequest))
	}
	return interceptor(ctx, in, info, handler)
}
