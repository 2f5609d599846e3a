package auth

// Claims representa la información extraída del token.
// UserID es la cuenta que opera sobre los passes.
type Claims struct {
	UserID string
	Email  string
}
