package domain

type Role string

const (
	RoleViewer        Role = "Viewer"
	RoleEndorser      Role = "Endorser"
	RoleAdministrator Role = "Administrator"
)

type Office struct {
	ID      string
	Name    string
	Acronym string
}

type User struct {
	ID       string
	Name     string
	Email    string
	Role     Role
	OfficeID string
}

func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}
