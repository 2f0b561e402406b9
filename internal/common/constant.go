package common

// AuthHeaderName is the HTTP header used to carry the bearer token on
// outbound requests.
const AuthHeaderName = "Authorization"

// BearerPrefix prefixes the token value in AuthHeaderName.
const BearerPrefix = "Bearer "
