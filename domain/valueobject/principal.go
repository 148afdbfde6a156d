package valueobject

// Principal is the resolved identity attached to one authenticated request.
type Principal struct {
	UserID      string   `json:"user_id"`
	Subject     string   `json:"subject"`
	Name        string   `json:"name"`
	Authorities []string `json:"authorities"`
}

func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
