package dto

// ─── Requests ─────────────────────────────────────────────────────────────────

// RegisterTenantRequest creates a tenant together with its first admin user.
type RegisterTenantRequest struct {
	BusinessName string `json:"business_name" validate:"required,min=3,max=120"`
	Subdomain    string `json:"subdomain" validate:"required,min=3,max=63,alphanum,lowercase"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	Username     string `json:"username" validate:"required,min=3,max=50"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin manager cashier"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

type RegisterTenantResponse struct {
	TenantID     string `json:"tenant_id"`
	BusinessName string `json:"business_name"`
	Subdomain    string `json:"subdomain"`
	AdminUserID  string `json:"admin_user_id"`
}
