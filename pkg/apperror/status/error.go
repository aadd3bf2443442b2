package status

// ErrorCode is a numeric code to classify API errors in a stable way
type ErrorCode int

// Reserved ranges by domain:
//   0-999:     client/validation errors
//   1000-1999: upload
//   2000-2999: ingestion
//   3000-3999: query/search

const (
	BadRequestBase    ErrorCode = 0
	UploadErrorBase   ErrorCode = 1000
	IngestErrorBase   ErrorCode = 2000
	QueryErrorBase    ErrorCode = 3000
	InternalErrorBase ErrorCode = 9000
)

// Client/validation errors
const (
	InvalidRequestBody ErrorCode = BadRequestBase + iota // 0
	MissingParams                                        // 1
)

// Upload errors
const (
	UploadInternal        ErrorCode = UploadErrorBase + iota // 1000
	UploadStoreFailed                                        // 1001
	UploadDocumentMissing                                    // 1002
)

// Ingestion errors
const (
	IngestInternal          ErrorCode = IngestErrorBase + iota // 2000
	IngestUnsupportedFormat                                    // 2001
	IngestDocumentRead                                         // 2002
	IngestPersistFailed                                        // 2003
)

// Query errors
const (
	QueryInternal     ErrorCode = QueryErrorBase + iota // 3000
	QueryEmbedFailed                                    // 3001
	QuerySearchFailed                                   // 3002
)

const (
	ErrorCodeInternal ErrorCode = InternalErrorBase // 9000
)

// CodedError represents an error with an associated ErrorCode
type CodedError interface {
	error
	ErrorCode() ErrorCode
}

type codedError struct {
	code ErrorCode
	err  error
}

func (e codedError) Error() string        { return e.err.Error() }
func (e codedError) Unwrap() error        { return e.err }
func (e codedError) ErrorCode() ErrorCode { return e.code }

// New creates a new CodedError with the given code and underlying error
func New(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return codedError{code: code, err: err}
}
