package gateway

// Credentials is the local username/password login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authority is a single granted authority on a local account.
type Authority struct {
	Authority string `json:"authority"`
}

// UserProfile is the read-only projection of the authenticated identity.
// Local accounts carry the full authority/credential metadata; OAuth-sourced
// profiles populate only id, name and attributes.
type UserProfile struct {
	ID                    string      `json:"id"`
	Username              string      `json:"username"`
	Name                  string      `json:"name"`
	Password              string      `json:"password,omitempty"`
	ProfileID             string      `json:"profileId,omitempty"`
	AdvertiserID          string      `json:"advertiserId,omitempty"`
	Attributes            string      `json:"attributes,omitempty"`
	Authorities           []Authority `json:"authorities,omitempty"`
	Enabled               bool        `json:"enabled"`
	AccountNonExpired     bool        `json:"accountNonExpired"`
	AccountNonLocked      bool        `json:"accountNonLocked"`
	CredentialsNonExpired bool        `json:"credentialsNonExpired"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
