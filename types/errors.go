package types

import (
	"cosmossdk.io/errors"
	"google.golang.org/grpc/codes"
)

var (
	ErrInvalidRequest     = errors.RegisterWithGRPCCode(ModuleName, 2, codes.InvalidArgument, "invalid request")
	ErrVaultAlreadyExists = errors.RegisterWithGRPCCode(ModuleName, 3, codes.AlreadyExists, "vault already exists")
	ErrInvalidFee         = errors.RegisterWithGRPCCode(ModuleName, 4, codes.InvalidArgument, "invalid fee")
	ErrInvalidAllocation  = errors.RegisterWithGRPCCode(ModuleName, 5, codes.InvalidArgument, "invalid allocation")
	ErrInvalidVaultID     = errors.RegisterWithGRPCCode(ModuleName, 6, codes.InvalidArgument, "invalid vault id")
	ErrVaultNotFound      = errors.RegisterWithGRPCCode(ModuleName, 7, codes.NotFound, "vault not found")
	ErrZeroAmount         = errors.RegisterWithGRPCCode(ModuleName, 8, codes.InvalidArgument, "zero amount")
	ErrInsufficientShares = errors.RegisterWithGRPCCode(ModuleName, 9, codes.FailedPrecondition, "insufficient shares")
	ErrArithmeticOverflow = errors.RegisterWithGRPCCode(ModuleName, 10, codes.OutOfRange, "arithmetic overflow")
	ErrDivisionByZero     = errors.RegisterWithGRPCCode(ModuleName, 11, codes.OutOfRange, "division by zero")
	ErrUnauthorized       = errors.RegisterWithGRPCCode(ModuleName, 12, codes.PermissionDenied, "unauthorized")
	ErrInvariantBroken    = errors.RegisterWithGRPCCode(ModuleName, 13, codes.Internal, "vault invariant broken")
)

// IsConfigurationError reports whether err is fixed by changing the vault parameters.
func IsConfigurationError(err error) bool {
	return errors.IsOf(err, ErrVaultAlreadyExists, ErrInvalidFee, ErrInvalidAllocation, ErrInvalidVaultID)
}

// IsLookupError reports whether err was caused by addressing a vault that does not exist.
func IsLookupError(err error) bool {
	return errors.IsOf(err, ErrVaultNotFound)
}

// IsValueError reports whether err is fixed by supplying different amounts.
func IsValueError(err error) bool {
	return errors.IsOf(err, ErrZeroAmount, ErrInsufficientShares, ErrInvalidRequest)
}

// IsArithmeticError reports whether err means the operation would leave the
// representable range or divide by zero.
func IsArithmeticError(err error) bool {
	return errors.IsOf(err, ErrArithmeticOverflow, ErrDivisionByZero)
}
