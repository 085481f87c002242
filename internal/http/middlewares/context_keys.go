package middlewares

// Keys used to stash request-scoped values on the gin context.
const (
	CtxRequestID = "request_id"
	CtxUserID    = "auth.userID"
	CtxEmail     = "auth.email"
	CtxRole      = "auth.role"
)
