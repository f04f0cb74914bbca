package models

// User is an operator account. Users are provisioned out-of-band and only
// read by the service (apart from password rehashing on login).
type User struct {
	UserID    string   `json:"userId"`
	Password  string   `json:"-"`
	UserName  string   `json:"userName"`
	UserGroup string   `json:"userGroup"`
	ParkIDs   []string `json:"parkIds"`
}

// UserSummary is the user shape returned by login and profile.
type UserSummary struct {
	UserID    string   `json:"userId"`
	UserName  string   `json:"userName"`
	UserGroup string   `json:"userGroup"`
	ParkIDs   []string `json:"parkIds"`
	Parks     []Park   `json:"parks,omitempty"`
}

// Summary drops the credential.
func (u *User) Summary() UserSummary {
	parkIDs := u.ParkIDs
	if parkIDs == nil {
		parkIDs = []string{}
	}
	return UserSummary{
		UserID:    u.UserID,
		UserName:  u.UserName,
		UserGroup: u.UserGroup,
		ParkIDs:   parkIDs,
	}
}
