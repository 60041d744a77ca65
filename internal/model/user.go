package model

// User represents a single record in the admin table. The ID is assigned
// by the remote users API and never generated or reused client-side.
type User struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	CompanyName string `json:"companyName"`
	Website     string `json:"website"`
}

// Draft holds the editable fields of an in-progress add or edit form.
// A draft is merged into the record store only after the corresponding
// remote call confirms success; cancelling a form discards it.
type Draft struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Username    string `json:"username"`
	Street      string `json:"street"`
	City        string `json:"city"`
	CompanyName string `json:"companyName"`
	Website     string `json:"website"`
}

// ApplyTo overwrites the editable fields of a stored user with the
// draft's values, leaving the ID untouched.
func (d Draft) ApplyTo(u *User) {
	u.Name = d.Name
	u.Email = d.Email
	u.Phone = d.Phone
	u.Username = d.Username
	u.Street = d.Street
	u.City = d.City
	u.CompanyName = d.CompanyName
	u.Website = d.Website
}

// DraftOf builds a draft pre-filled from an existing user record.
func DraftOf(u User) Draft {
	return Draft{
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Username:    u.Username,
		Street:      u.Street,
		City:        u.City,
		CompanyName: u.CompanyName,
		Website:     u.Website,
	}
}
