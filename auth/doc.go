// Package auth groups the authentication building blocks of the service.
//
// Subpackages:
//
//   - auth/jwt      HS256 bearer token issue, validation and extraction
//   - auth/password password hashing (bcrypt, argon2id) and reset token generation
//   - auth/authctx  request context propagation for the resolved user
//
// The top-level Config composes the subpackage configs with the login and
// reset-token settings. Like every config struct in the module it has
// ApplyDefaults()/Validate() and mapstructure tags:
//
//	auth:
//	  jwt:
//	    secret: "change-me-to-32-random-bytes"
//	    ttl: "15m"
//	    cookie_name: "access_token"
//	  password:
//	    algorithm: "bcrypt"
//	    bcrypt_cost: 12
//	  login_ttl: "24h"
//	  reset_token_length: 32
//	  reset_ttl: "1h"
package auth
