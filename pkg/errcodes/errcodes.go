package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Discovery pipeline.
	ProviderUnavailable failure.ErrorCode = "ProviderUnavailable" // Transport/rate-limit failure calling a model provider
	ModelReplyInvalid   failure.ErrorCode = "ModelReplyInvalid"   // Reply is not parseable into the expected shape
	EstimateFailed      failure.ErrorCode = "EstimateFailed"      // Price estimation exhausted its retry budget
	InvalidPrice        failure.ErrorCode = "InvalidPrice"        // Price string without numeric content, or not > 0
	IndexModelMismatch  failure.ErrorCode = "IndexModelMismatch"  // Vector index built with a different embedding model
	OpportunityNotFound failure.ErrorCode = "OpportunityNotFound"
	FeedUnavailable     failure.ErrorCode = "FeedUnavailable"
)
