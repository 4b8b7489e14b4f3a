package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/application/usecase"
	"github.com/bibbank/credit-engine/internal/domain/model"
)

// CreditHandler implements CreditServiceServer on top of the use cases.
type CreditHandler struct {
	UnimplementedCreditServiceServer

	registerCustomer  *usecase.RegisterCustomerUseCase
	checkEligibility  *usecase.CheckEligibilityUseCase
	createLoan        *usecase.CreateLoanUseCase
	getLoan           *usecase.GetLoanUseCase
	listCustomerLoans *usecase.ListCustomerLoansUseCase
	getCreditScore    *usecase.GetCreditScoreUseCase
	logger            *slog.Logger
}

// NewCreditHandler creates a new handler with all use-case dependencies.
func NewCreditHandler(
	registerCustomer *usecase.RegisterCustomerUseCase,
	checkEligibility *usecase.CheckEligibilityUseCase,
	createLoan *usecase.CreateLoanUseCase,
	getLoan *usecase.GetLoanUseCase,
	listCustomerLoans *usecase.ListCustomerLoansUseCase,
	getCreditScore *usecase.GetCreditScoreUseCase,
	logger *slog.Logger,
) *CreditHandler {
	return &CreditHandler{
		registerCustomer:  registerCustomer,
		checkEligibility:  checkEligibility,
		createLoan:        createLoan,
		getLoan:           getLoan,
		listCustomerLoans: listCustomerLoans,
		getCreditScore:    getCreditScore,
		logger:            logger,
	}
}

func (h *CreditHandler) RegisterCustomer(ctx context.Context, req *dto.RegisterCustomerRequest) (*dto.CustomerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.registerCustomer.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *CreditHandler) CheckEligibility(ctx context.Context, req *dto.LoanRequest) (*dto.EligibilityResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.checkEligibility.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *CreditHandler) CreateLoan(ctx context.Context, req *dto.LoanRequest) (*dto.CreateLoanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.createLoan.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *CreditHandler) GetLoan(ctx context.Context, req *dto.GetLoanRequest) (*dto.LoanDetailResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.getLoan.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *CreditHandler) ListCustomerLoans(ctx context.Context, req *dto.CustomerRequest) (*dto.CustomerLoansResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.listCustomerLoans.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *CreditHandler) GetCreditScore(ctx context.Context, req *dto.CustomerRequest) (*dto.CreditScoreResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.getCreditScore.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// toStatus maps domain errors to gRPC codes. Anything unrecognised is
// logged and reported as Internal without its detail.
func (h *CreditHandler) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrCustomerNotFound), errors.Is(err, model.ErrLoanNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrDuplicatePhone):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, model.ErrConcurrentUpdate):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
