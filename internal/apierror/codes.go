package apierror

// Problem type URNs. These are stable identifiers, not resolvable URLs.
const (
	TypeValidation  = "urn:skymarket:problem:validation-failed"
	TypeNotFound    = "urn:skymarket:problem:not-found"
	TypeBadRequest  = "urn:skymarket:problem:bad-request"
	TypeInvalidUUID = "urn:skymarket:problem:invalid-uuid"
	TypeRateLimit   = "urn:skymarket:problem:rate-limit-exceeded"
	TypeInternal    = "urn:skymarket:problem:internal-error"
	TypeUpstream    = "urn:skymarket:problem:upstream-failure"
	TypeStore       = "urn:skymarket:problem:store-unavailable"
)

// Problem titles matching the type URNs.
const (
	TitleValidation  = "Validation Failed"
	TitleNotFound    = "Resource Not Found"
	TitleBadRequest  = "Bad Request"
	TitleInvalidUUID = "Invalid UUID Format"
	TitleRateLimit   = "Rate Limit Exceeded"
	TitleInternal    = "Internal Server Error"
	TitleUpstream    = "Upstream Provider Failure"
	TitleStore       = "Storage Unavailable"
)
