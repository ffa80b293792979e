package entity

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleStaff   UserRole = "staff"
)

type User struct {
	Base
	Username       string   `db:"username"`
	Email          string   `db:"email"`
	PasswordHash   string   `db:"password"`
	Phone          *string  `db:"phone"`
	Role           UserRole `db:"role"`
	RegularStudent bool     `db:"regular_student"`
	IsActive       bool     `db:"is_active"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
