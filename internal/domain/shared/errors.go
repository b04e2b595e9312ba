package shared

// DomainError is a business rule violation. The Code travels to API
// clients unchanged, so handlers can map it to an HTTP status without
// string matching on messages.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Errors shared across aggregates. Services wrap or return these
// directly; handlers match them with errors.As.
var (
	ErrNotFound              = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists         = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict   = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized          = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden             = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState          = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientCapacity  = NewDomainError("INSUFFICIENT_CAPACITY", "Warehouse does not have enough free capacity")
	ErrReceiptNotActive      = NewDomainError("RECEIPT_NOT_ACTIVE", "Warehouse receipt is not in active status")
	ErrReceiptCollateralized = NewDomainError("RECEIPT_COLLATERALIZED", "Warehouse receipt is pledged as loan collateral")
	ErrLoanLimitExceeded     = NewDomainError("LOAN_LIMIT_EXCEEDED", "Loan amount exceeds the lending margin for this receipt")
	ErrOverpayment           = NewDomainError("OVERPAYMENT", "Payment exceeds the outstanding balance")
)
