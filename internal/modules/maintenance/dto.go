package maintenance

type CreateRequestDTO struct {
	ApartmentID   int64  `json:"apartment_id" validate:"required,gt=0"`
	Kind          string `json:"kind" validate:"required,oneof=cleaning repair"`
	Description   string `json:"description" validate:"required,min=5,max=2000"`
	PreferredDate string `json:"preferred_date" validate:"omitempty,datetime=2006-01-02"`
}

type AssignRequestDTO struct {
	StaffID      int64  `json:"staff_id" validate:"required,gt=0"`
	ScheduledFor string `json:"scheduled_for" validate:"required"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=in_progress completed cancelled"`
}
