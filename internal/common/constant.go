package common

// SessionCookieName carries the signed session token.
const SessionCookieName = "session"

// FlashCookieName carries pending one-time notices between requests.
const FlashCookieName = "flash"

// RequestIDHeaderName is echoed on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"
