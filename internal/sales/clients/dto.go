package clients

type CreateClientRequest struct {
	Name    *string `json:"name" validate:"required"`
	Email   *string `json:"email" validate:"required"`
	Address *string `json:"address" validate:"required"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r UpdateClientRequest) empty() bool {
	return r.Name == nil && r.Email == nil && r.Address == nil
}
