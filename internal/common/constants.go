package common

// ServiceTokenHeaderName is the HTTP header carrying the static service token
// required by administrative endpoints.
const ServiceTokenHeaderName = "X-Service-Token"

// AccessTokenHeaderName is the HTTP header carrying the access token issued
// by the login endpoint.
const AccessTokenHeaderName = "Authorization"

// Role identifiers stored in the persons table.
const (
	RoleIDAdmin = 1
	RoleIDUser  = 2
)

// RoleNames maps the role names accepted on the wire to role identifiers.
var RoleNames = map[string]int{
	"ADMIN": RoleIDAdmin,
	"USER":  RoleIDUser,
}
