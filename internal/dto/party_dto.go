package dto

// Suppliers and customers share the same attribute set.

type CreatePartyRequest struct {
	Name    string  `json:"name"    validate:"required,min=1,max=200"`
	Contact *string `json:"contact" validate:"omitempty,max=100"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
	Status  string  `json:"status"  validate:"omitempty,oneof=Active Inactive"`
}

type UpdatePartyRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=1,max=200"`
	Contact *string `json:"contact" validate:"omitempty,max=100"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
	Status  *string `json:"status"  validate:"omitempty,oneof=Active Inactive"`
}

type PartyResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Contact   *string `json:"contact"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
