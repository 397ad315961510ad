package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// LocaleHeaderName is the gRPC metadata key carrying the caller's locale.
const LocaleHeaderName = "accept-language"
