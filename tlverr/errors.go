// Package tlverr holds the shared error-code taxonomy returned by every
// layer of the NDN core (varint, tlv, ndnname, packet, face). Every
// operation propagates one of these codes unchanged; none are caught or
// translated inside the core.
package tlverr

import "fmt"

// Code identifies the class of failure, independent of any human-readable
// detail. Callers that need to branch on failure kind should switch on Code,
// not on the formatted message.
type Code string

const (
	// OVERSIZE: buffer too small, or a configured maximum (name components,
	// content bytes, signature bytes) was exceeded.
	OVERSIZE Code = "OVERSIZE"
	// WRONG_TLV_TYPE: a required TLV type marker did not match.
	WRONG_TLV_TYPE Code = "WRONG_TLV_TYPE"
	// INVALID_FORMAT: a malformed name string or a malformed varint.
	INVALID_FORMAT Code = "INVALID_FORMAT"
	// BUFFER_UNDERFLOW: the source buffer was truncated mid-read.
	BUFFER_UNDERFLOW Code = "BUFFER_UNDERFLOW"
	// SEC_UNSUPPORT_SIGN_TYPE: the signature-type byte names a suite this
	// build does not implement.
	SEC_UNSUPPORT_SIGN_TYPE Code = "SEC_UNSUPPORT_SIGN_TYPE"
	// SEC_WRONG_SIG_SIZE: the signature byte count is inconsistent with its
	// declared type (e.g. a DIGEST_SHA256 signature that isn't 32 bytes).
	SEC_WRONG_SIG_SIZE Code = "SEC_WRONG_SIG_SIZE"
	// SEC_FAIL_VERIFY: decode succeeded but the signature did not verify.
	SEC_FAIL_VERIFY Code = "SEC_FAIL_VERIFY"
	// FWD_NO_MATCHED_CALLBACK: a face table walk found no matching entry.
	FWD_NO_MATCHED_CALLBACK Code = "FWD_NO_MATCHED_CALLBACK"
	// FWD_APP_FACE_CB_TABLE_FULL: the face's bounded callback table has no
	// free slot.
	FWD_APP_FACE_CB_TABLE_FULL Code = "FWD_APP_FACE_CB_TABLE_FULL"
)

// Error is the concrete error type every core package returns.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// New builds an *Error for the given code and detail message.
func New(code Code, msg string) error {
	return &Error{Code: code, Msg: msg}
}

// Newf builds an *Error with a formatted detail message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a *Error carrying the given code, so callers can
// write `tlverr.Is(err, tlverr.OVERSIZE)` instead of a type assertion.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
