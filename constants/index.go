package constants

const (
	ROLE_ADMIN = "admin"
	ROLE_USER  = "user"
)

var ROLES = []string{ROLE_ADMIN, ROLE_USER}

const (
	ERROR_INTERNAL_ERROR     = "Internal server error"
	ERROR_INPUT              = "Invalid input"
	DATA_INPUT_IS_NOT_NUMBER = "Parameter must be a number"
	ERROR_FORBIDDEN          = "Not authorized"
	ERROR_ADMIN_ONLY         = "Admin access required"
	ERROR_MISSING_TOKEN      = "Missing token"
	ERROR_INVALID_TOKEN      = "Invalid token"
)

const (
	ERROR_PARSE_DATA_TO_LOCALS = "Cannot read request data"
	ERROR_CREATE               = "Create failed"
	ERROR_UPDATE               = "Update failed"
	ERROR_NOT_FOUND            = "Not found"
	ERROR_DUPLICATE_PLATE      = "License plate already exists"
	ERROR_DUPLICATE_USER       = "Username or email already exists"
	ERROR_HASH_PASSWORD        = "Cannot hash password"
)
