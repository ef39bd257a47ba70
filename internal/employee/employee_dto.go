package employee

type CreateEmployeeRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	Designation   string `json:"designation" binding:"required"`
	Department    string `json:"department" binding:"required"`
	DateOfJoining string `json:"date_of_joining" binding:"required"`
}

// UpdateEmployeeRequest carries no email: the address doubles as the login
// identity and is immutable after creation.
type UpdateEmployeeRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Phone       string `json:"phone"`
	Designation string `json:"designation" binding:"required"`
	Department  string `json:"department" binding:"required"`
}

type EmployeeResponse struct {
	ID            string `json:"id"`
	EmployeeCode  string `json:"employee_code"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Designation   string `json:"designation,omitempty"`
	Department    string `json:"department,omitempty"`
	DateOfJoining string `json:"date_of_joining"`
	Status        string `json:"status"`
}

type EmployeeOptionResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
}
