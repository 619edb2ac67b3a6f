package dto

// LoginRequest represents a login form submission
type LoginRequest struct {
	Subdomain string `json:"subdomain" form:"subdomain" binding:"required"`
	Email     string `json:"email" form:"email" binding:"required"`
	Password  string `json:"password" form:"password" binding:"required"`
	Redirect  string `json:"redirect" form:"redirect"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Redirect string `json:"redirect"`
}

// RegisterRequest represents a school registration form submission
type RegisterRequest struct {
	SchoolName string `json:"school_name" form:"school_name" binding:"required"`
	Subdomain  string `json:"subdomain" form:"subdomain" binding:"required"`
	AdminName  string `json:"admin_name" form:"admin_name"`
	Email      string `json:"email" form:"email" binding:"required"`
	Password   string `json:"password" form:"password" binding:"required"`
	Plan       string `json:"plan" form:"plan"`
	Cycle      string `json:"cycle" form:"cycle"`
}
