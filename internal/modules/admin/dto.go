package admin

type CreateStaffRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"omitempty,msisdn_ke"`
}

type FamilyMemberRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Relationship string `json:"relationship" validate:"required,oneof=spouse child parent sibling other"`
	Phone        string `json:"phone" validate:"omitempty,msisdn_ke"`
}
