package model

import "time"

// Role is the enumerated privilege tag carried by every user.  It is
// compared by value; RoleAdmin is the only role that grants the
// administrative operations (blocks, maintenance, override cancels).
type Role string

const (
    RoleAdmin Role = "ADMIN"
    RoleUser  Role = "USER"
)

// User represents a row in the `users` table.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password; never serialized.
//  Role         – ADMIN or USER.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    `json:"id"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    Role         Role      `json:"role"`
    CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin derives the single authorization boolean the booking engine
// needs from the user's role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored; the raw string goes back to
// the client once and is never persisted.
type RefreshToken struct {
    ID        uint64
    UserID    uint64
    TokenHash string
    ExpiresAt time.Time
    RevokedAt *time.Time
    CreatedAt time.Time
}
