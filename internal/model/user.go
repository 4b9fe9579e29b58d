package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user (UUID).
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – optional given name.
//  LastName     – optional family name.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           string    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// AuthUser is the minimal identity attached to an authenticated request.
// It is resolved from the access token subject on every protected call.
type AuthUser struct {
    ID    string `json:"id"`
    Email string `json:"email"`
}

// AuthToken models an entry in the `auth_tokens` table.  One row exists
// per issued refresh token; the row id doubles as the refresh JWT's jti
// claim.  Logout flips Valid to false for all of a user's rows instead of
// deleting them, which keeps an audit trail of issued sessions.
//
// Fields:
//  TokenID   – primary key identifier, also the refresh token jti.
//  UserID    – owner of the token.
//  Valid     – false once revoked by logout.
//  CreatedAt – timestamp of creation.
type AuthToken struct {
    TokenID   string    // auth_tokens.token_id
    UserID    string    // auth_tokens.user_id
    Valid     bool      // auth_tokens.valid
    CreatedAt time.Time // auth_tokens.created_at
}
