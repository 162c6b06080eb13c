package tokens

// Credential is a request body to obtain tokens.
type Credential struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Refresh is a request body to refresh tokens.
type Refresh struct {
	Refresh string `json:"refresh" form:"refresh"`
}

// Pair is a response body with tokens.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
